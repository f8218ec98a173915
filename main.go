package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sourcegraph/conc"
	"github.com/spf13/pflag"

	"travelfetcher/internal/config"
	"travelfetcher/internal/controller"
	"travelfetcher/internal/currency"
	"travelfetcher/internal/exchange"
	"travelfetcher/internal/fetcher"
	"travelfetcher/internal/flight"
	"travelfetcher/internal/repository"
)

// app wires the flight board and the currency converter together.
type app struct {
	cfg       *config.Config
	out       io.Writer
	board     flight.Query
	flights   *controller.Controller[flight.Query, flight.Schedules]
	rates     *controller.Controller[currency.Query, currency.RateTable]
	converter *exchange.Converter
}

func newApp(cfg *config.Config, out io.Writer) *app {
	flightRepo := repository.NewFlightRepository(flight.NewGateway(cfg.FlightBaseURL, cfg.HTTPTimeout))
	currencyRepo := repository.NewCurrencyRepository(currency.NewGateway(cfg.CurrencyAPIKey, cfg.CurrencyBaseURL, cfg.HTTPTimeout))

	a := &app{
		cfg:     cfg,
		out:     out,
		board:   flight.Query{Line: cfg.FlightLine, Direction: cfg.FlightDirection},
		flights: controller.New[flight.Query, flight.Schedules]("flight", flightRepo),
		rates:   controller.New[currency.Query, currency.RateTable]("currency", currencyRepo),
	}

	var opts []exchange.Option
	if cfg.CurrencyRebaseLocally {
		opts = append(opts, exchange.WithLocalRebase())
	}
	a.converter = exchange.NewConverter(a.rates, cfg.CurrencyBase, cfg.CurrencySymbols, opts...)

	a.flights.Subscribe(func(r fetcher.Result[flight.Schedules]) {
		printBoard(a.out, a.board, r)
	})
	a.rates.Subscribe(func(r fetcher.Result[currency.RateTable]) {
		printRates(a.out, a.converter, r)
	})
	return a
}

// start issues the initial fetch of both screens.
func (a *app) start(ctx context.Context) {
	a.flights.Request(ctx, a.board, true)
	a.converter.Load(ctx)
}

// wait blocks until every issued fetch has completed.
func (a *app) wait() {
	a.flights.Wait()
	a.rates.Wait()
}

func printBoard(w io.Writer, q flight.Query, r fetcher.Result[flight.Schedules]) {
	fmt.Fprint(w, fetcher.Match(r,
		func() string {
			return fmt.Sprintf("[flights %s] loading...\n", q)
		},
		func(list flight.Schedules) string {
			var b strings.Builder
			fmt.Fprintf(&b, "[flights %s] %d flights\n", q, len(list))
			for _, s := range list {
				fmt.Fprintf(&b, "  %-5s %-5s %-3s%-6s %-4s %-8s %-6s %s\n",
					s.ExpectTime, s.RealTime, s.AirlineCode, s.AirlineNum,
					airport(s.OriginCode), airport(s.DestinationCode), s.BoardingGate, s.Status)
			}
			return b.String()
		},
		func(err *fetcher.FetchError) string {
			return fmt.Sprintf("[flights %s] error: %s\n", q, err.Message)
		},
	))
}

func airport(code *string) string {
	if code == nil {
		return "-"
	}
	return *code
}

func printRates(w io.Writer, conv *exchange.Converter, r fetcher.Result[currency.RateTable]) {
	fmt.Fprint(w, fetcher.Match(r,
		func() string {
			return fmt.Sprintf("[rates %s] loading...\n", conv.Base())
		},
		func(currency.RateTable) string {
			rows, err := conv.Rows()
			if err != nil {
				return fmt.Sprintf("[rates %s] %v\n", conv.Base(), err)
			}
			var b strings.Builder
			fmt.Fprintf(&b, "[rates %s] %s %s =\n", conv.Base(), conv.Amount(), conv.Base())
			for _, row := range rows {
				fmt.Fprintf(&b, "  %-4s %s\n", row.Code, row.Display)
			}
			return b.String()
		},
		func(err *fetcher.FetchError) string {
			return fmt.Sprintf("[rates %s] error: %s\n", conv.Base(), err.Message)
		},
	))
}

func main() {
	config.RegisterFlags(pflag.CommandLine)
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(pflag.CommandLine)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	a := newApp(cfg, os.Stdout)
	a.start(ctx)

	if cfg.Watch {
		var poller conc.WaitGroup
		poller.Go(func() { a.flights.Poll(ctx, cfg.FlightRefreshInterval) })
		<-ctx.Done()
		poller.Wait()
	}

	a.wait()
}
