package bodyecho

import (
	"time"

	"github.com/dmitrymomot/httpbody/core/server"
	"github.com/dmitrymomot/httpbody/integration/storage/s3"
)

type Config struct {
	Server server.Config
	// Object routes are mounted only when S3.Bucket is set.
	S3 s3.Config

	AppName  string `env:"APP_NAME" envDefault:"bodyecho"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	EchoMaxBytes   int64         `env:"ECHO_MAX_BYTES" envDefault:"1048576"`
	StreamInterval time.Duration `env:"STREAM_INTERVAL" envDefault:"100ms"`
	StreamMaxTicks int           `env:"STREAM_MAX_TICKS" envDefault:"1000"`
}
