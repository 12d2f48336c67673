package render

import (
	"io/fs"
	"strings"
	"time"

	"github.com/goliatone/go-jsontemplate/pkg/exec"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	compiler        exec.Compiler
	registry        *exec.Registry
	partials        map[string]string
	injectables     map[string]string
	safe            bool
	preprocess      bool
	maxPartialDepth int
	locale          string
	hook            exec.LoggingHook
	limiters        func() exec.Limiter
	templates       fs.FS
	baseDir         string
	extension       string
	now             func() time.Time
}

// WithCompiler replaces the YAML program compiler.
func WithCompiler(compiler exec.Compiler) Option {
	return func(cfg *config) {
		if compiler != nil {
			cfg.compiler = compiler
		}
	}
}

// WithRegistry replaces the default formatter and predicate registry.
func WithRegistry(registry *exec.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithPartials adds named partial sources available to every render.
func WithPartials(partials map[string]string) Option {
	return func(cfg *config) {
		if len(partials) == 0 {
			return
		}
		if cfg.partials == nil {
			cfg.partials = make(map[string]string, len(partials))
		}
		for name, source := range partials {
			cfg.partials[strings.TrimSpace(name)] = source
		}
	}
}

// WithInjectables adds named JSON payloads available to every render.
func WithInjectables(injectables map[string]string) Option {
	return func(cfg *config) {
		if len(injectables) == 0 {
			return
		}
		if cfg.injectables == nil {
			cfg.injectables = make(map[string]string, len(injectables))
		}
		for name, payload := range injectables {
			cfg.injectables[strings.TrimSpace(name)] = payload
		}
	}
}

// WithSafeMode makes renders collect errors instead of failing.
func WithSafeMode(safe bool) Option {
	return func(cfg *config) {
		cfg.safe = safe
	}
}

// WithPreprocess compiles and renders in preprocess mode.
func WithPreprocess(preprocess bool) Option {
	return func(cfg *config) {
		cfg.preprocess = preprocess
	}
}

// WithMaxPartialDepth caps partial nesting for every render.
func WithMaxPartialDepth(depth int) Option {
	return func(cfg *config) {
		cfg.maxPartialDepth = depth
	}
}

// WithLocale sets the locale tag used by formatting plugins.
func WithLocale(tag string) Option {
	return func(cfg *config) {
		cfg.locale = strings.TrimSpace(tag)
	}
}

// WithLoggingHook forwards unexpected render failures to hook.
func WithLoggingHook(hook exec.LoggingHook) Option {
	return func(cfg *config) {
		cfg.hook = hook
	}
}

// WithLimiterFactory builds a fresh limiter for every render. Limiters keep
// per-render state, so a single instance must not be shared.
func WithLimiterFactory(factory func() exec.Limiter) Option {
	return func(cfg *config) {
		cfg.limiters = factory
	}
}

// WithLimits is a convenience over WithLimiterFactory combining a step cap
// and a time budget. Zero values disable the respective limit.
func WithLimits(maxSteps int, budget time.Duration) Option {
	return func(cfg *config) {
		if maxSteps <= 0 && budget <= 0 {
			return
		}
		cfg.limiters = func() exec.Limiter {
			var limiters []exec.Limiter
			if maxSteps > 0 {
				limiters = append(limiters, exec.NewStepLimiter(maxSteps))
			}
			if budget > 0 {
				limiters = append(limiters, exec.NewTimeLimiter(budget))
			}
			return exec.Limiters(limiters...)
		}
	}
}

// WithBaseDir loads programs that were not registered from a directory.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads programs that were not registered from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the ".yaml" extension used when loading programs.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithClock fixes the render clock exposed to plugins.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		cfg.now = now
	}
}
