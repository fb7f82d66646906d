package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-lifestory/internal/config"
	"github.com/tartampluch/go-lifestory/internal/dates"
	"github.com/tartampluch/go-lifestory/internal/export"
	"github.com/tartampluch/go-lifestory/internal/generation"
	"github.com/tartampluch/go-lifestory/internal/report"
)

// Assembler builds reports; satisfied by *report.Assembler.
type Assembler interface {
	Assemble(ctx context.Context, bd dates.BirthDate) (report.Report, error)
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReportServer exposes report assembly over HTTP.
type ReportServer struct {
	Port string

	assembler Assembler
	clock     dates.Clock
	app       *fiber.App
}

// NewReportServer wires the routes. gatherer backs /metrics; nil uses the
// default Prometheus registry.
func NewReportServer(port string, assembler Assembler, clock dates.Clock, gatherer prometheus.Gatherer) *ReportServer {
	if clock == nil {
		clock = dates.RealClock{}
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &ReportServer{
		Port:      port,
		assembler: assembler,
		clock:     clock,
	}

	app := fiber.New(fiber.Config{
		AppName:               config.AppName,
		ReadTimeout:           config.ServerReadTimeout,
		WriteTimeout:          config.ServerWriteTimeout,
		IdleTimeout:           config.ServerIdleTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: logPanic,
	}))
	app.Use(requestLogger)
	app.Use(etag.New())

	app.Get(config.RouteHealth, s.handleHealth)
	app.Get(config.RouteMetrics, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	app.Get(config.RouteGenerations, s.handleGenerations)
	app.Get(config.RouteReportICS, s.handleCalendar)
	app.Get(config.RouteReportVCF, s.handleCelebrities)
	app.Get(config.RouteReport, s.handleReport)

	s.app = app
	return s
}

// App exposes the router, mainly for in-process tests.
func (s *ReportServer) App() *fiber.App {
	return s.app
}

// Start listens on Port and blocks until the context is cancelled.
func (s *ReportServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := s.app.Listen(config.AddrSeparator + s.Port); err != nil {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

func (s *ReportServer) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: config.StatusOK, Version: config.Version})
}

func (s *ReportServer) handleGenerations(c *fiber.Ctx) error {
	return c.JSON(generation.All())
}

func (s *ReportServer) handleReport(c *fiber.Ctx) error {
	r, err := s.assemble(c)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (s *ReportServer) handleCalendar(c *fiber.Ctx) error {
	r, err := s.assemble(c)
	if err != nil {
		return err
	}

	body, err := export.Calendar(r, s.clock.Now())
	if err != nil {
		return err
	}

	c.Set(config.HeaderContentType, config.MimeTextCalendar)
	c.Set(config.HeaderXContent, config.MimeNoSniff)
	c.Set(config.HeaderCache, config.CacheControlPriv)
	return c.Send(body)
}

func (s *ReportServer) handleCelebrities(c *fiber.Ctx) error {
	r, err := s.assemble(c)
	if err != nil {
		return err
	}

	body, err := export.Celebrities(r)
	if err != nil {
		return err
	}

	c.Set(config.HeaderContentType, config.MimeVCard)
	c.Set(config.HeaderXContent, config.MimeNoSniff)
	return c.Send(body)
}

// assemble parses the :date parameter and builds its report. Errors come
// back as *fiber.Error carrying the status to answer with.
func (s *ReportServer) assemble(c *fiber.Ctx) (report.Report, error) {
	bd, err := dates.ParseBirthDate(c.Params(config.ParamDate))
	if err != nil {
		return report.Report{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	r, err := s.assembler.Assemble(c.UserContext(), bd)
	if err == nil {
		return r, nil
	}

	var (
		notFound   *report.ContentNotFoundError
		outOfRange *generation.OutOfRangeError
	)
	switch {
	case errors.As(err, &notFound):
		return report.Report{}, fiber.NewError(fiber.StatusNotFound, config.HTTPMsgReportUnavailable)
	case errors.As(err, &outOfRange):
		return report.Report{}, fiber.NewError(fiber.StatusBadRequest, config.HTTPMsgOutOfRange)
	default:
		return report.Report{}, err
	}
}

// errorHandler renders every error as ErrorResponse. Errors that are not
// *fiber.Error are logged and hidden behind a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := config.HTTPMsgInternalErr

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		slog.Error(config.HTTPMsgInternalErr,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPath, c.Path(),
			config.LogKeyError, err,
		)
	}

	return c.Status(code).JSON(ErrorResponse{Error: msg})
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}

	slog.Debug(config.MsgRequest,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyMethod, c.Method(),
		config.LogKeyPath, c.Path(),
		config.LogKeyStatus, status,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return err
}

func logPanic(_ *fiber.Ctx, e any) {
	slog.Error(config.MsgPanicRecovered,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyError, fmt.Sprint(e),
	)
}
