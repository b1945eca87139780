// Package warmup exercises the comparison hot paths before real traffic
// arrives, so first requests are not paying for allocator and scheduler
// ramp-up.
package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
)

// Config defines configuration for warming up the system.
type Config struct {
	// Number of concurrent warmup routines to run.
	Concurrency int
	// Number of iterations per routine.
	Iterations int
	// Sample text size for warmup.
	SampleTextSize int
	// Warmup duration (0 means no time limit).
	Duration time.Duration
	// Whether to perform GC after warmup.
	ForceGC bool
}

// DefaultConfig returns the default warmup configuration.
func DefaultConfig() Config {
	return Config{
		Concurrency:    runtime.NumCPU(),
		Iterations:     100,
		SampleTextSize: 1000,
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles system warmup operations.
type Manager struct {
	logger      ports.Logger
	comparators []ports.LexicalComparator
	normalizers []ports.Normalizer
	config      Config
}

// NewManager creates a new warmup manager.
func NewManager(logger ports.Logger, config Config) *Manager {
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterComparator adds a lexical comparator to be warmed up.
func (wm *Manager) RegisterComparator(c ports.LexicalComparator) {
	wm.comparators = append(wm.comparators, c)
}

// RegisterNormalizer adds a normalizer to be warmed up.
func (wm *Manager) RegisterNormalizer(n ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, n)
}

// WarmUp runs the warmup process for all registered components.
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.comparators)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	original := sampleText(wm.config.SampleTextSize)
	similar := alterText(original, 0.1)
	different := alterText(original, 0.5)

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-warmupCtx.Done():
					return
				default:
				}

				for _, n := range wm.normalizers {
					_ = n.Normalize(original)
				}
				for _, c := range wm.comparators {
					switch j % 3 {
					case 0:
						_ = c.Ratio(warmupCtx, original, original)
					case 1:
						_ = c.Ratio(warmupCtx, original, similar)
					default:
						_ = c.Diff(warmupCtx, original, different)
					}
				}
			}
		}()
	}
	wg.Wait()

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

// sampleText creates drawing-flavored sample text of roughly the given size.
func sampleText(size int) string {
	lines := []string{
		"STEEL BEAM W14X30 SPAN 20FT",
		"DEAD LOAD 50 PSF LIVE LOAD 40 PSF",
		"COLUMN HSS8X8X1/2 GRADE A500",
		"FOOTING F1 6'-0\" X 6'-0\" X 1'-6\"",
		"CONCRETE F'C = 4000 PSI",
		"REBAR #5 @ 12\" O.C. EACH WAY",
		"TYP. DETAIL 3/S-501",
	}

	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		sb.WriteString(lines[i%len(lines)])
		sb.WriteString("\n")
	}
	return sb.String()
}

// alterText replaces a share of the lines in the text.
func alterText(original string, diffRatio float64) string {
	lines := strings.Split(original, "\n")
	changeCount := int(float64(len(lines)) * diffRatio)
	for i := 0; i < changeCount && i < len(lines); i++ {
		lines[i] = "REVISED NOTE SEE SHEET S-000"
	}
	return strings.Join(lines, "\n")
}
