package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf is the process-wide configuration, set once by NewConfig at startup.
var Conf *Config

type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	Build    string

	AppName          string
	WorkDir          string
	SecretKey        string
	FrontendBaseURL  string
	AdminEmail       string
	defaultFromEmail string

	SendgridApiKey string
	RollbarToken   string

	PasswordResetTimeoutDelta time.Duration

	Server struct {
		Host                      string
		APIAddr                   string
		DebugAddr                 string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		ShutdownTimeout           time.Duration
	}

	Database struct {
		Host       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	Extraction struct {
		URL     string
		ApiKey  string
		Timeout time.Duration
	}
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "DarAttalib")
	v.SetDefault("secretKey", "j2x&u0#sd-q8z7!pakw5h^$ceg(m2emy)enb$+57=dz")
	v.SetDefault("frontendBaseUrl", "http://localhost:3000")
	v.SetDefault("adminEmail", "admin@localhost")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverApiAddr", ":8000")
	v.SetDefault("serverDebugAddr", ":9000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databaseName", "dartalib")
	v.SetDefault("databaseUser", "postgres")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseDisableTls", true)
	v.SetDefault("extractionUrl", "")
	v.SetDefault("extractionTimeout", 90*time.Second)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		WorkDir:          Getwd(),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseUrl"),
		AdminEmail:       v.GetString("adminEmail"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),

		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.APIAddr = v.GetString("serverApiAddr")
	conf.Server.DebugAddr = v.GetString("serverDebugAddr")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Server.JWTRefreshExpirationDelta = v.GetDuration("jwtRefreshExpirationDelta")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	conf.Database.Host = v.GetString("databaseHost")
	conf.Database.Name = v.GetString("databaseName")
	conf.Database.User = v.GetString("databaseUser")
	conf.Database.Password = v.GetString("databasePassword")
	conf.Database.DisableTLS = v.GetBool("databaseDisableTls")
	conf.Extraction.URL = v.GetString("extractionUrl")
	conf.Extraction.ApiKey = v.GetString("extractionApiKey")
	conf.Extraction.Timeout = v.GetDuration("extractionTimeout")

	Conf = conf
	return conf
}
