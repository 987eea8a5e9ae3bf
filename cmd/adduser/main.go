// Command adduser creates an account from the shell, seeding the same
// default categories as POST /api/auth/register.
//
//	adduser -name Alice -email alice@example.com
//
// The password is prompted for when -password is omitted.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"expenso/internal/config"
	"expenso/internal/logger"
	"expenso/internal/repository"
	"expenso/internal/repository/db"
	"expenso/internal/service"

	"golang.org/x/term"
)

const opTimeout = 30 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configDir = fs.String("config", "configs", "directory holding config.yml")
		dbPath    = fs.String("db", "", "sqlite file (overrides db.path)")
		name      = fs.String("name", "", "display name")
		email     = fs.String("email", "", "login email")
		password  = fs.String("password", "", "password (prompted when empty)")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" || *email == "" {
		fmt.Fprintln(stderr, "adduser: -name and -email are required")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(stderr, "adduser:", err)
		return 1
	}
	if *dbPath != "" {
		cfg.DB.Path = *dbPath
	}

	if *password == "" {
		pw, err := readPassword(stdin, stderr)
		if err != nil {
			fmt.Fprintln(stderr, "adduser: read password:", err)
			return 1
		}
		*password = pw
	}

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		fmt.Fprintln(stderr, "adduser:", err)
		return 1
	}
	defer sqlDB.Close()

	log := logger.New(stderr, cfg.Log.Level)
	services := service.NewService(repository.NewRepository(sqlDB), service.Deps{
		Tokens: service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL),
		Log:    log,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := services.Register(ctx, service.RegisterInput{Name: *name, Email: *email, Password: *password})
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		fmt.Fprintf(stderr, "adduser: %s is already registered\n", strings.ToLower(strings.TrimSpace(*email)))
		return 1
	case err != nil:
		fmt.Fprintln(stderr, "adduser:", err)
		return 1
	}

	fmt.Fprintf(stdout, "created user %d <%s>\n", res.User.ID, res.User.Email)
	return 0
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(stdin io.Reader, stderr io.Writer) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(stderr, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
