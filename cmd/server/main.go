package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-google-auth/flow"
	"github.com/jrsteele09/go-google-auth/integration"
	"github.com/jrsteele09/go-google-auth/internal/config"
	"github.com/jrsteele09/go-google-auth/server"
	"github.com/jrsteele09/go-google-auth/server/flowrepo"
	"github.com/jrsteele09/go-google-auth/server/loginsession"
	"github.com/jrsteele09/go-google-auth/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	ctx := context.Background()

	integ, err := newIntegration(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to configure Google integration: %w", err)
	}

	flowService, err := newFlowService(ctx, c, integ)
	if err != nil {
		return fmt.Errorf("failed to create flow service: %w", err)
	}

	srv, err := server.New(c, flowService, flowrepo.NewInMemoryRepo(), loginsession.NewInMemoryRepo())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func newIntegration(ctx context.Context, c config.Config) (*integration.Integration, error) {
	if c.GetDiscoverEndpoints() {
		return integration.Discover(ctx, c.GetGoogleIssuer(), c.GetGoogleClientID(), c.GetGoogleClientSecret())
	}
	return integration.NewGoogle(c.GetGoogleClientID(), c.GetGoogleClientSecret())
}

func newFlowService(ctx context.Context, c config.Config, integ *integration.Integration) (*flow.Service, error) {
	exchanger, err := token.NewExchangeClient(integ)
	if err != nil {
		return nil, err
	}

	verifier, err := token.NewVerifier(ctx, integ)
	if err != nil {
		return nil, err
	}

	options := []flow.ServiceOption{}
	if hd := c.GetHostedDomain(); hd != "" {
		options = append(options, flow.WithHostedDomain(hd))
	}

	return flow.NewService(integ, exchanger, verifier, options...)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
