package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "flow":
		flowCmd(apiURL, args)
	case "seed":
		seedCmd(apiURL, args)
	case "login":
		loginCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Auth Check - Development tool for exercising the auth API

USAGE:
  authcheck <command> [options]

COMMANDS:
  flow      Register a user, log in, fetch /me, log out and confirm the token is dead
  seed      Register fake users
  login     Log in and print the access token
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Run the whole login lifecycle once
  authcheck flow

  # Register 5 users sharing one password
  authcheck seed --count=5 --password=Passw0rd!

  # Get a token for curl
  authcheck login --email=alice@example.com --password=Passw0rd!`)
}

func flowCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("flow", flag.ExitOnError)
	password := fs.String("password", "Passw0rd!", "Password for the throwaway user")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	fmt.Println("=== Auth Check: Full Flow ===")
	fmt.Println()

	fmt.Print("Registering user... ")
	user, err := client.RegisterUser("check", *password)
	if err != nil {
		fail(err)
	}
	fmt.Printf("OK (id: %d, email: %s)\n", user.ID, user.Email)

	fmt.Print("Logging in... ")
	token, expiresIn, err := client.Login(user.Email, *password)
	if err != nil {
		fail(err)
	}
	fmt.Printf("OK (expires in %ds)\n", expiresIn)

	fmt.Print("Fetching /me... ")
	me, err := client.Me(token)
	if err != nil {
		fail(err)
	}
	if me.ID != user.ID {
		fail(fmt.Errorf("expected user %d, got %d", user.ID, me.ID))
	}
	fmt.Println("OK")

	fmt.Print("Requesting password reset... ")
	if err := client.ForgotPassword(user.Email); err != nil {
		fail(err)
	}
	fmt.Println("OK")

	fmt.Print("Logging out... ")
	if err := client.Logout(token); err != nil {
		fail(err)
	}
	fmt.Println("OK")

	fmt.Print("Confirming token is rejected... ")
	_, err = client.Me(token)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusUnauthorized {
		fail(fmt.Errorf("expected 401 after logout, got %v", err))
	}
	fmt.Println("OK")

	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  AUTH FLOW PASSED")
	fmt.Println("=========================================")
}

func seedCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	count := fs.Int("count", 5, "Number of users to register")
	password := fs.String("password", "Passw0rd!", "Password shared by every seeded user")
	fs.Parse(args)

	if *count < 1 {
		fmt.Println("Error: --count must be at least 1")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Printf("Registering %d users...\n\n", *count)

	for i := 0; i < *count; i++ {
		user, err := client.RegisterUser(fmt.Sprintf("user%d", i+1), *password)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED: %v\n", i+1, *count, err)
			continue
		}
		fmt.Printf("  [%d/%d] %s\n", i+1, *count, user.Email)
	}

	fmt.Println()
	fmt.Printf("Done! Every user logs in with password %q\n", *password)
}

func loginCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email (required)")
	password := fs.String("password", "", "Account password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: --email and --password are required")
		fmt.Println("\nUsage: authcheck login --email=alice@example.com --password=secret")
		os.Exit(1)
	}

	token, _, err := NewAPIClient(apiURL).Login(*email, *password)
	if err != nil {
		fail(err)
	}
	fmt.Println(token)
}

func fail(err error) {
	fmt.Printf("FAILED\n  Error: %v\n", err)
	os.Exit(1)
}
