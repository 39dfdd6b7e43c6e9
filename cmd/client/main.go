package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"contact_manager/internal/client"
	"contact_manager/internal/model"

	"golang.org/x/term"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "contact manager server URL")
	flag.Parse()

	c := client.New(*serverURL)
	store := client.NewStore(c, 0)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Contact manager client. Commands: register, login, list, search, tag, tags, add, fav, del, export-token, quit")

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		ctx := context.Background()

		switch cmd {
		case "register":
			register(ctx, c, store, reader)
		case "login":
			login(ctx, c, store, reader)
		case "list":
			if err := store.Refresh(ctx); err != nil {
				fmt.Println(err)
				continue
			}
			printContacts(store.Visible())
		case "search":
			store.SetSearch(strings.Join(args, " "))
			fmt.Println("Search set; list again after the debounce window.")
		case "tag":
			tag := client.TagAll
			if len(args) > 0 {
				tag = args[0]
			}
			store.SelectTag(tag)
			printContacts(store.Visible())
		case "tags":
			fmt.Println(strings.Join(store.Tags(), ", "))
		case "add":
			add(ctx, c, store, reader)
		case "fav":
			withID(args, func(id int64) {
				if err := store.ToggleFavorite(ctx, id); err != nil {
					fmt.Println(err)
				}
			})
		case "del":
			withID(args, func(id int64) {
				fmt.Print("Delete this contact? [y/N] ")
				answer, _ := reader.ReadString('\n')
				if strings.TrimSpace(strings.ToLower(answer)) != "y" {
					return
				}
				if err := store.Delete(ctx, id); err != nil {
					fmt.Println(err)
				}
			})
		case "export-token":
			fmt.Println(c.Token())
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func register(ctx context.Context, c *client.Client, store *client.Store, reader *bufio.Reader) {
	name := prompt(reader, "Name")
	email := prompt(reader, "Email")
	password, err := promptPassword()
	if err != nil {
		fmt.Println(err)
		return
	}

	session, err := c.Register(ctx, name, email, password)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Registered as %s (%s)\n", session.Name, session.Email)
	bootstrap(ctx, c, store)
}

func login(ctx context.Context, c *client.Client, store *client.Store, reader *bufio.Reader) {
	email := prompt(reader, "Email")
	password, err := promptPassword()
	if err != nil {
		fmt.Println(err)
		return
	}

	session, err := c.Login(ctx, email, password)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Logged in as %s (%s)\n", session.Name, session.Email)
	bootstrap(ctx, c, store)
}

// bootstrap verifies the token server-side once, then loads the list.
func bootstrap(ctx context.Context, c *client.Client, store *client.Store) {
	if _, err := c.Me(ctx); err != nil {
		fmt.Println("Session check failed:", err)
		return
	}
	if err := store.Refresh(ctx); err != nil {
		fmt.Println(err)
	}
}

func add(ctx context.Context, c *client.Client, store *client.Store, reader *bufio.Reader) {
	req := model.CreateContactRequest{
		Name:  prompt(reader, "Name"),
		Phone: prompt(reader, "Phone"),
		Email: prompt(reader, "Email"),
	}
	if company := prompt(reader, "Company (optional)"); company != "" {
		req.Company = &company
	}
	if tags := prompt(reader, "Tags, comma separated (optional)"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			req.Tags = append(req.Tags, strings.TrimSpace(t))
		}
	}
	if notes := prompt(reader, "Notes (optional)"); notes != "" {
		req.Notes = &notes
	}

	if _, err := c.CreateContact(ctx, req); err != nil {
		fmt.Println(err)
		return
	}
	if err := store.Refresh(ctx); err != nil {
		fmt.Println(err)
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label + ": ")
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func withID(args []string, fn func(int64)) {
	if len(args) == 0 {
		fmt.Println("Contact id required")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Invalid contact id:", args[0])
		return
	}
	fn(id)
}

func printContacts(contacts []model.Contact) {
	if len(contacts) == 0 {
		fmt.Println("No contacts.")
		return
	}
	for _, c := range contacts {
		star := " "
		if c.IsFavorite {
			star = "*"
		}
		line := fmt.Sprintf("%s %4d  %-24s %-16s %s", star, c.ID, c.Name, c.Phone, c.Email)
		if len(c.Tags) > 0 {
			line += "  [" + strings.Join(c.Tags, ",") + "]"
		}
		fmt.Println(line)
	}
}
