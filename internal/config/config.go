package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Timezone    string `env:"TIMEZONE" envDefault:"Europe/Moscow"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		FullName string `env:"FULL_NAME" envDefault:"Administrator"`
		Email    string `env:"EMAIL,required"`
		Password string `env:"PASSWORD,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"1209600"` // 14 days, in seconds
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD,required"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Email struct {
		SecurityAddress string `env:"SECURITY_ADDRESS,required"`
		EmployeeDomain  string `env:"EMPLOYEE_DOMAIN" envDefault:"timeguard.local"`
		SMTP            struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	Watchdog struct {
		LatenessInterval     int `env:"LATENESS_INTERVAL" envDefault:"300"` // seconds
		LatenessGracePeriod  int `env:"LATENESS_GRACE_PERIOD" envDefault:"15"` // minutes
		BreakCheckInterval   int `env:"BREAK_CHECK_INTERVAL" envDefault:"60"` // seconds
		BreakDurationLimit   int `env:"BREAK_DURATION_LIMIT" envDefault:"15"` // minutes
		LunchDurationLimit   int `env:"LUNCH_DURATION_LIMIT" envDefault:"60"` // minutes
		BreakDailyLimit      int `env:"BREAK_DAILY_LIMIT" envDefault:"3"`
		LunchDailyLimit      int `env:"LUNCH_DAILY_LIMIT" envDefault:"1"`
		DealLookAheadMinutes int `env:"DEAL_LOOK_AHEAD_MINUTES" envDefault:"80"`
	} `envPrefix:"WATCHDOG_"`
	Seed struct {
		Employee struct {
			Password string `env:"PASSWORD" envDefault:"changeme"`
		} `envPrefix:"EMPLOYEE_"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// Only return the first error to keep the log readable.
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
