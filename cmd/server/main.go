package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baditaflorin/l"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	semanticsimilarity "github.com/baditaflorin/go_semantic_similarity"
)

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 60 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultMaxRequestSize = 16 * 1024 * 1024 // 16MB
	DefaultConcurrency    = 0                // 0 means use GOMAXPROCS
)

var (
	comparator *semanticsimilarity.Comparator
	logger     l.Logger
)

// CompareRequest is a comparison of two extracted drawing texts.
type CompareRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
	Mode  string `json:"mode,omitempty"`
}

// ConsensusRequest queries several models and merges their judgments.
type ConsensusRequest struct {
	TextA  string   `json:"text_a"`
	TextB  string   `json:"text_b"`
	Models []string `json:"models"`
}

// AskRequest is a follow-up question about a prior comparison result.
type AskRequest struct {
	Question string                               `json:"question"`
	Result   *semanticsimilarity.ComparisonResult `json:"comparison_result"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	// Load .env before reading configuration from the environment.
	_ = godotenv.Load()

	port := flag.Int("port", DefaultPort, "HTTP server port")
	readTimeout := flag.Duration("read-timeout", DefaultReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", DefaultWriteTimeout, "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", DefaultMaxRequestSize, "Maximum request size in bytes")
	concurrency := flag.Int("concurrency", DefaultConcurrency, "Maximum number of concurrent requests (0 = GOMAXPROCS)")
	warmUp := flag.Bool("warm-up", true, "Perform system warm-up on startup")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	model := flag.String("model", "", "Primary model identifier (default from SEMANTIC_MODEL or gpt-4o)")
	flag.Parse()

	var err error
	logger, err = createLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting semantic comparison HTTP server",
		"port", *port,
		"read_timeout", *readTimeout,
		"write_timeout", *writeTimeout,
		"max_request_size", *maxRequestSize,
		"concurrency", *concurrency,
	)

	initComparator(*warmUp, *model)

	server := &fasthttp.Server{
		Handler:               requestHandler,
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		MaxRequestBodySize:    *maxRequestSize,
		Concurrency:           *concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
		Logger:                nil, // we'll handle logging ourselves
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("Server listening", "address", fmt.Sprintf(":%d", *port))
	if err := server.ListenAndServe(fmt.Sprintf(":%d", *port)); err != nil {
		logger.Error("Server error", "error", err)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// initComparator builds the shared comparator from flags and environment.
func initComparator(warmUp bool, model string) {
	if model == "" {
		model = os.Getenv("SEMANTIC_MODEL")
	}

	opts := []semanticsimilarity.Option{
		semanticsimilarity.WithWarmUp(warmUp),
	}
	if model != "" {
		opts = append(opts, semanticsimilarity.WithModel(model))
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		opts = append(opts, semanticsimilarity.WithAPIKey(key))
	} else {
		logger.Warn("OPENAI_API_KEY not set, AI comparison disabled")
	}
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		opts = append(opts, semanticsimilarity.WithBaseURL(base))
	}

	var err error
	comparator, err = semanticsimilarity.New(opts...)
	if err != nil {
		logger.Error("Failed to initialize comparator", "error", err)
		os.Exit(1)
	}

	logger.Info("Comparator initialized",
		"ai_available", comparator.AIAvailable(),
		"warm_up", warmUp,
	)
}

// requestHandler is the main fasthttp request handler
func requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	requestID := uuid.NewString()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("X-Request-ID", requestID)

	switch string(ctx.Path()) {
	case "/health":
		handleHealthCheck(ctx)
	case "/compare":
		handleCompare(ctx)
	case "/consensus":
		handleConsensus(ctx)
	case "/ask":
		handleAsk(ctx)
	case "/limits":
		handleLimits(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found")
	}

	duration := time.Since(startTime)
	logger.Info("Request processed",
		"request_id", requestID,
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", duration,
	)
}

// handleHealthCheck responds to health check requests
func handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, map[string]interface{}{
		"status":       "ok",
		"ai_available": comparator.AIAvailable(),
		"time":         time.Now().Format(time.RFC3339),
	})
}

// handleCompare compares two texts with the requested mode.
func handleCompare(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req CompareRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}
	if req.TextA == "" && req.TextB == "" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Both text_a and text_b are required")
		return
	}

	mode := semanticsimilarity.Mode(req.Mode)
	if req.Mode == "" {
		mode = semanticsimilarity.ModeAuto
	}

	c, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	result, err := comparator.Compare(c, req.TextA, req.TextB, mode)
	if err != nil {
		status := fasthttp.StatusInternalServerError
		if err == semanticsimilarity.ErrAIUnavailable {
			status = fasthttp.StatusServiceUnavailable
		}
		ctx.SetStatusCode(status)
		writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, result)
}

// handleConsensus compares two texts across multiple models.
func handleConsensus(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req ConsensusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}
	if len(req.Models) == 0 {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "At least one model is required")
		return
	}

	c, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	result, err := comparator.CompareWithConsensus(c, req.TextA, req.TextB, req.Models)
	if err != nil {
		status := fasthttp.StatusInternalServerError
		if err == semanticsimilarity.ErrAIUnavailable {
			status = fasthttp.StatusServiceUnavailable
		}
		ctx.SetStatusCode(status)
		writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, result)
}

// handleAsk answers a follow-up question about a comparison result.
func handleAsk(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}
	if req.Question == "" || req.Result == nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Provide a question and comparison result")
		return
	}

	c, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	answer, err := comparator.AskQuestion(c, req.Result, req.Question)
	if err != nil {
		status := fasthttp.StatusInternalServerError
		if err == semanticsimilarity.ErrAIUnavailable {
			status = fasthttp.StatusServiceUnavailable
		}
		ctx.SetStatusCode(status)
		writeJSONError(ctx, err.Error())
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, map[string]string{"answer": answer})
}

// handleLimits reports the effective request limits for clients.
func handleLimits(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, map[string]interface{}{
		"max_request_size":       formatBytes(DefaultMaxRequestSize),
		"ai_comparison_enabled":  comparator.AIAvailable(),
		"detailed_prompt_budget": 4000,
		"simple_prompt_budget":   2000,
		"recommendations": []string{
			"Send extracted plain text, not file contents",
			"Set OPENAI_API_KEY for intelligent semantic comparison",
			"Use mode \"basic\" for deterministic, offline comparison",
		},
	})
}

// formatBytes converts bytes to a human-readable size.
func formatBytes(n float64) string {
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if n < 1024.0 {
			return fmt.Sprintf("%.2f %s", n, unit)
		}
		n /= 1024.0
	}
	return fmt.Sprintf("%.2f TB", n)
}

// Helper functions

// writeJSONResponse writes a JSON response to the context
func writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON response", "error", err)
		writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}

// createLogger creates and configures a logger
func createLogger(logFile string) (l.Logger, error) {
	factory := l.NewStandardFactory()

	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  true,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
