package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/spatialtrees/featureflag"
	lodhttp "github.com/aukilabs/spatialtrees/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var (
	// The planetlod version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "planetlod_info",
		Help:        "Planetlod information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	AdminAddr        string        `cli:""        env:"PLANETLOD_ADMIN_ADDR"         help:"Admin listening address."`
	LogLevel         string        `cli:""        env:"PLANETLOD_LOG_LEVEL"          help:"Log level (debug|info|warning|error)."`
	LogIndent        bool          `cli:""        env:"PLANETLOD_LOG_INDENT"         help:"Indent logs."`
	Radius           int           `cli:""        env:"PLANETLOD_RADIUS"             help:"Planet radius in meters."`
	Altitude         int           `cli:""        env:"PLANETLOD_ALTITUDE"           help:"Viewer altitude above the planet surface in meters."`
	MaxDepth         int           `cli:""        env:"PLANETLOD_MAX_DEPTH"          help:"Maximum subdivision depth of the planet faces."`
	LODFactor        int           `cli:""        env:"PLANETLOD_LOD_FACTOR"         help:"Subdivision distance, in percent of the node size."`
	FrameDuration    time.Duration `cli:""        env:"PLANETLOD_FRAME_DURATION"     help:"The duration of a refine frame."`
	OrbitPeriod      time.Duration `cli:""        env:"PLANETLOD_ORBIT_PERIOD"       help:"The time the viewer takes to orbit the planet."`
	PayloadCacheSize int           `cli:",hidden" env:"PLANETLOD_PAYLOAD_CACHE_SIZE" help:"The maximum number of tile payloads kept in memory."`
	ShutdownTimeout  time.Duration `cli:",hidden" env:"PLANETLOD_SHUTDOWN_TIMEOUT"   help:"The time given to the admin server to shut down."`
	Events           eventsConfig  `cli:",hidden" env:"-"                            help:"Event pusher configuration."`
	FeatureFlags     []string      `cli:",hidden" env:"PLANETLOD_FEATURE_FLAGS"      help:"Comma separated feature flags (VALIDATE_INVARIANTS|PRINT_TREE|DISABLE_PAYLOADS)."`
	Version          bool          `cli:""        env:"-"                            help:"Show version."`
	Help             bool          `cli:""        env:"-"                            help:"Show help."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"PLANETLOD_EVENTS_ENDPOINT"       help:"Endpoint to where log events are pushed."`
	FlushInterval time.Duration `cli:",hidden" env:"PLANETLOD_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"PLANETLOD_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"PLANETLOD_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func defaultConfig() config {
	return config{
		AdminAddr:        ":18190",
		LogLevel:         logs.InfoLevel.String(),
		Radius:           6371000,
		Altitude:         400000,
		MaxDepth:         12,
		LODFactor:        150,
		FrameDuration:    time.Millisecond * 100,
		OrbitPeriod:      time.Minute * 5,
		PayloadCacheSize: 1 << 16,
		ShutdownTimeout:  time.Second * 5,
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}
}

func main() {
	conf := defaultConfig()

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Refines a planet tree around a viewer orbiting the planet.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     metrics.HTTPTransport(http.DefaultTransport),
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "planetlod",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	flags := featureflag.New(conf.FeatureFlags)

	h, err := newHost(conf, flags)
	if err != nil {
		logs.Fatal(errors.New("creating planet host failed").Wrap(err))
	}

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", lodhttp.HandleHealthCheck)
	admin.HandleFunc("/ready", lodhttp.HandleReadyCheck(h.Ready))
	admin.HandleFunc("/version", lodhttp.HandleVersion(version))
	admin.HandleFunc("/stats", lodhttp.HandleStats(h.Stats))
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("radius", conf.Radius).
		WithTag("max_depth", conf.MaxDepth).
		WithTag("feature_flags", flags.List()).
		Info("starting planetlod")

	runErr := make(chan error, 1)
	go func() {
		runErr <- h.Run(ctx, conf.FrameDuration)
		cancel()
	}()

	err = lodhttp.ListenAndServe(ctx, conf.ShutdownTimeout,
		&http.Server{Addr: conf.AdminAddr, Handler: metrics.HTTPHandler(&admin,
			lodhttp.MetricsPathFormatter(adminPaths...))},
	)
	if err == nil {
		err = <-runErr
	}
	if err != nil {
		cancel()
		logs.Fatal(err)
	}
}

var adminPaths = []string{
	"/metrics",
	"/health",
	"/ready",
	"/version",
	"/stats",
	"/debug/pprof/",
}

func validateConfig(conf config) error {
	switch {
	case conf.Radius <= 0:
		return errors.New("radius must be positive").
			WithTag("radius", conf.Radius)

	case conf.Altitude < 0:
		return errors.New("altitude must not be negative").
			WithTag("altitude", conf.Altitude)

	case conf.MaxDepth < 0 || conf.MaxDepth > maxPlanetDepth:
		return errors.Newf("max depth must be between 0 and %d", maxPlanetDepth).
			WithTag("max_depth", conf.MaxDepth)

	case conf.LODFactor <= 0:
		return errors.New("lod factor must be positive").
			WithTag("lod_factor", conf.LODFactor)

	case conf.FrameDuration <= 0:
		return errors.New("frame duration must be positive").
			WithTag("frame_duration", conf.FrameDuration)

	case conf.OrbitPeriod <= 0:
		return errors.New("orbit period must be positive").
			WithTag("orbit_period", conf.OrbitPeriod)

	case conf.PayloadCacheSize <= 0:
		return errors.New("payload cache size must be positive").
			WithTag("payload_cache_size", conf.PayloadCacheSize)
	}

	return nil
}
