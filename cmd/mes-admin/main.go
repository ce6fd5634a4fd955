// ABOUTME: Admin CLI for the mes-users API
// ABOUTME: Logs in, inspects tokens, and manages users and addresses over HTTP

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const banner = `
 _ __ ___   ___  ___        __ _  __| |_ __ ___ (_)_ __
| '_ ' _ \ / _ \/ __|_____ / _' |/ _' | '_ ' _ \| | '_ \
| | | | | |  __/\__ \_____| (_| | (_| | | | | | | | | | |
|_| |_| |_|\___||___/      \__,_|\__,_|_| |_| |_|_|_| |_|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "login":
		err = cmdLogin(cfg, args)
	case "me":
		err = cmdMe(cfg)
	case "refresh":
		err = cmdRefresh(cfg)
	case "users":
		err = cmdUsers(cfg, args)
	case "addresses":
		err = cmdAddresses(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: mes-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  login <email>           Log in and save the token")
	fmt.Println("  me                      Show the identity behind the saved token")
	fmt.Println("  refresh                 Mint a fresh token and save it")
	fmt.Println("  users                   List users")
	fmt.Println("  users list [page]       List users (paginated)")
	fmt.Println("  users create <u> <e>    Register a user (prompts for password)")
	fmt.Println("  users promote <id>      Grant the admin role")
	fmt.Println("  users demote <id>       Revoke the admin role")
	fmt.Println("  users delete <id>       Delete a user")
	fmt.Println("  addresses [page]        List addresses")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  MES_USERS_HOST          API base URL (default: http://localhost:8080)")
	fmt.Println("  MES_USERS_TOKEN         Bearer token (overrides the saved one)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  mes-admin login admin@example.com")
	fmt.Println("  mes-admin users list")
	fmt.Println("  mes-admin users promote 42")
	fmt.Println()
}

// envelope is the API response shape.
type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// call sends one API request and decodes the envelope. Non-2xx responses
// become errors carrying the server's message.
func call(cfg *Config, method, path string, body any) (*envelope, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.Server.URL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.Auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Auth.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%s (status %d)", env.Message, env.StatusCode)
	}
	return &env, nil
}

type sessionData struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	UserID    int64  `json:"userId"`
	IsAdmin   bool   `json:"isAdmin"`
}

type userData struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Admin    bool   `json:"admin"`
}

type addressData struct {
	ID     int64    `json:"id"`
	Cep    string   `json:"cep"`
	Street string   `json:"street"`
	Number string   `json:"number"`
	City   string   `json:"city"`
	State  string   `json:"state"`
	User   userData `json:"user"`
}

type pageData struct {
	Items      json.RawMessage `json:"items"`
	Page       int             `json:"page"`
	TotalCount int             `json:"totalCount"`
	TotalPages int             `json:"totalPages"`
}

func cmdLogin(cfg *Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mes-admin login <email>")
	}
	email := args[0]

	fmt.Print("Password: ")
	password, err := readPassword()
	if err != nil {
		return err
	}
	fmt.Println()

	env, err := call(cfg, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	var session sessionData
	if err := json.Unmarshal(env.Data, &session); err != nil {
		return fmt.Errorf("decoding session: %w", err)
	}

	if err := saveToken(cfg, session.Token); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Logged in as user %d", session.UserID)
	if session.IsAdmin {
		color.New(color.FgYellow).Print(" [admin]")
	}
	fmt.Printf("\n  Token saved to %s (expires in %s)\n",
		configPath(), time.Duration(session.ExpiresIn)*time.Second)
	return nil
}

// readPassword reads without echo when stdin is a terminal.
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func cmdMe(cfg *Config) error {
	env, err := call(cfg, http.MethodPost, "/api/auth/validate", nil)
	if err != nil {
		return err
	}

	var user userData
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return fmt.Errorf("decoding user: %w", err)
	}

	printUsers([]userData{user})
	return nil
}

func cmdRefresh(cfg *Config) error {
	env, err := call(cfg, http.MethodPost, "/api/auth/refresh", nil)
	if err != nil {
		return err
	}

	var session sessionData
	if err := json.Unmarshal(env.Data, &session); err != nil {
		return fmt.Errorf("decoding session: %w", err)
	}

	if err := saveToken(cfg, session.Token); err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("  ✓ Token refreshed (expires in %s)\n",
		time.Duration(session.ExpiresIn)*time.Second)
	return nil
}

func cmdUsers(cfg *Config, args []string) error {
	if len(args) == 0 {
		return listUsers(cfg, 1)
	}

	switch args[0] {
	case "list":
		page := 1
		if len(args) > 1 {
			p, err := strconv.Atoi(args[1])
			if err != nil || p < 1 {
				return fmt.Errorf("invalid page: %s", args[1])
			}
			page = p
		}
		return listUsers(cfg, page)
	case "create":
		return createUser(cfg, args[1:])
	case "promote":
		return setAdmin(cfg, args[1:], true)
	case "demote":
		return setAdmin(cfg, args[1:], false)
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: mes-admin users delete <id>")
		}
		env, err := call(cfg, http.MethodDelete, "/api/users/"+args[1], nil)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Printf("  ✓ %s\n", env.Message)
		return nil
	default:
		return fmt.Errorf("unknown users subcommand: %s", args[0])
	}
}

func listUsers(cfg *Config, page int) error {
	env, err := call(cfg, http.MethodGet, fmt.Sprintf("/api/users?page=%d", page), nil)
	if err != nil {
		return err
	}

	var pd pageData
	if err := json.Unmarshal(env.Data, &pd); err != nil {
		return fmt.Errorf("decoding page: %w", err)
	}
	var users []userData
	if err := json.Unmarshal(pd.Items, &users); err != nil {
		return fmt.Errorf("decoding users: %w", err)
	}

	printUsers(users)
	fmt.Printf("\nPage %d of %d (%d total)\n", pd.Page, pd.TotalPages, pd.TotalCount)
	return nil
}

func printUsers(users []userData) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
	for _, u := range users {
		role := "user"
		if u.Admin {
			role = "admin"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, role)
	}
	w.Flush()
}

func createUser(cfg *Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: mes-admin users create <username> <email>")
	}

	fmt.Print("Password: ")
	password, err := readPassword()
	if err != nil {
		return err
	}
	fmt.Println()

	env, err := call(cfg, http.MethodPost, "/api/users", map[string]string{
		"username": args[0],
		"email":    args[1],
		"password": password,
	})
	if err != nil {
		return err
	}

	var user userData
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return fmt.Errorf("decoding user: %w", err)
	}

	color.New(color.FgGreen).Printf("  ✓ Created user %d (%s)\n", user.ID, user.Username)
	return nil
}

func setAdmin(cfg *Config, args []string, admin bool) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mes-admin users promote|demote <id>")
	}

	env, err := call(cfg, http.MethodPut, "/api/users/"+args[0], map[string]bool{"admin": admin})
	if err != nil {
		return err
	}

	var user userData
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return fmt.Errorf("decoding user: %w", err)
	}

	role := "user"
	if user.Admin {
		role = "admin"
	}
	color.New(color.FgGreen).Printf("  ✓ %s is now %s\n", user.Username, role)
	return nil
}

func cmdAddresses(cfg *Config, args []string) error {
	page := 1
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 {
			return fmt.Errorf("invalid page: %s", args[0])
		}
		page = p
	}

	env, err := call(cfg, http.MethodGet, fmt.Sprintf("/api/addresses?page=%d", page), nil)
	if err != nil {
		return err
	}

	var pd pageData
	if err := json.Unmarshal(env.Data, &pd); err != nil {
		return fmt.Errorf("decoding page: %w", err)
	}
	var addrs []addressData
	if err := json.Unmarshal(pd.Items, &addrs); err != nil {
		return fmt.Errorf("decoding addresses: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCEP\tSTREET\tNUMBER\tCITY\tSTATE\tOWNER")
	for _, a := range addrs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Cep, a.Street, a.Number, a.City, a.State, a.User.Username)
	}
	w.Flush()

	fmt.Printf("\nPage %d of %d (%d total)\n", pd.Page, pd.TotalPages, pd.TotalCount)
	return nil
}
