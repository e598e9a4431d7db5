package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stocklight/go-inventory-client/auth"
	"github.com/stocklight/go-inventory-client/authapi"
	"github.com/stocklight/go-inventory-client/guard"
	"github.com/stocklight/go-inventory-client/internal/config"
	"github.com/stocklight/go-inventory-client/products"
	"github.com/stocklight/go-inventory-client/reports"
	"github.com/stocklight/go-inventory-client/session"
	"github.com/stocklight/go-inventory-client/storage/sqlitestore"
	"github.com/stocklight/go-inventory-client/transport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Client stopped")
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	document := flag.String("document", "", "login document number")
	password := flag.String("password", "", "login password")
	report := flag.Bool("report", false, "download the low-inventory PDF report")
	logout := flag.Bool("logout", false, "log out and clear the local session")
	flag.Parse()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	markers, err := sqlitestore.Open(c.GetStoragePath())
	if err != nil {
		return fmt.Errorf("opening session storage: %w", err)
	}
	defer func() { _ = markers.Close() }()

	store := session.NewStore()

	api, err := authapi.NewClient(c.GetBaseURL())
	if err != nil {
		return fmt.Errorf("building auth client: %w", err)
	}

	manager, err := auth.NewManager(api, store, markers,
		auth.WithRefreshInterval(c.GetRefreshInterval()),
		auth.WithConflictResolver(auth.ConflictResolverFunc(promptTakeover)),
	)
	if err != nil {
		return fmt.Errorf("building session manager: %w", err)
	}
	defer manager.Close()

	ctx := context.Background()

	// Startup: restore any server-held session. The client runs on with an
	// unauthenticated session when there is nothing to restore.
	if err := manager.ValidateExistingSession(ctx); err != nil {
		log.Warn().Err(err).Msg("Session restore did not complete")
	}

	if *logout {
		if err := manager.Logout(ctx); err != nil {
			return fmt.Errorf("logging out: %w", err)
		}
		log.Info().Msg("Logged out")
		return nil
	}

	if store.State() != session.StateAuthenticated {
		if *document == "" || *password == "" {
			return errors.New("no session held; pass -document and -password to log in")
		}
		sess, err := manager.Login(ctx, *document, *password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		log.Info().Str("username", sess.Username).Strs("roles", sess.Roles).Msg("Logged in")
	}

	authorizer, err := guard.NewAuthorizer(store,
		guard.WithWaitTimeout(c.GetGuardWaitTimeout()),
		guard.WithRoutes(c.GetLoginRoute(), c.GetLandingRoute()),
	)
	if err != nil {
		return fmt.Errorf("building authorizer: %w", err)
	}

	httpClient, err := transport.NewHTTPClient(store, transport.WithUnauthorizedHook(func() {
		log.Warn().Msg("Session rejected by the backend; please log in again")
	}))
	if err != nil {
		return fmt.Errorf("building bearer transport: %w", err)
	}
	httpClient.Timeout = c.GetHTTPTimeout()

	if err := listProducts(ctx, c, authorizer, httpClient); err != nil {
		return err
	}

	if *report {
		if err := downloadReport(ctx, c, authorizer, httpClient); err != nil {
			return err
		}
	}

	return nil
}

func listProducts(ctx context.Context, c config.Config, authorizer *guard.Authorizer, httpClient *http.Client) error {
	decision := authorizer.Authorize(ctx, guard.Policy{})
	if !decision.Allowed {
		return fmt.Errorf("products view denied, redirected to %s", decision.RedirectTo)
	}

	client, err := products.NewClient(c.GetBaseURL(), httpClient)
	if err != nil {
		return fmt.Errorf("building products client: %w", err)
	}

	list, err := client.List(ctx)
	if err != nil {
		return fmt.Errorf("listing products: %w", err)
	}

	for _, p := range list {
		marker := ""
		if p.Quantity <= reports.LowStockThreshold {
			marker = "  (low stock)"
		}
		fmt.Printf("%6d  %-30s  %8s  x%d%s\n", p.ID, p.Name, p.Price, p.Quantity, marker)
	}
	log.Info().Int("count", len(list)).Msg("Listed products")

	return nil
}

func downloadReport(ctx context.Context, c config.Config, authorizer *guard.Authorizer, httpClient *http.Client) error {
	decision := authorizer.Authorize(ctx, guard.Policy{Roles: []string{session.RoleAdmin}, RequireAll: true})
	if !decision.Allowed {
		return fmt.Errorf("report denied, redirected to %s", decision.RedirectTo)
	}

	client, err := reports.NewClient(c.GetBaseURL(), httpClient)
	if err != nil {
		return fmt.Errorf("building reports client: %w", err)
	}

	pdf, err := client.LowInventoryPDF(ctx)
	if err != nil {
		return fmt.Errorf("downloading report: %w", err)
	}

	const reportFile = "low-inventory.pdf"
	if err := os.WriteFile(reportFile, pdf, 0600); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	log.Info().Str("file", reportFile).Int("bytes", len(pdf)).Msg("Downloaded low-inventory report")

	return nil
}

// promptTakeover is the terminal rendition of the device-conflict decision
// point.
func promptTakeover(_ context.Context, localID, serverID string) (bool, error) {
	fmt.Printf("This account is signed in on another device (%s).\n", serverID)
	fmt.Printf("Take over the session for this device (%s)? [y/N]: ", localID)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func setupLogging(c config.Config) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if c.GetEnv() == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
