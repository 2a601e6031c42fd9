package config

import (
	"encoding/json"
	"log"
	"os"

	"github.com/kelseyhightower/envconfig"
)

type Configuration struct {
	ApiPort string `json:"api_port" envconfig:"PORT"`
	LogPath string `json:"log_path" envconfig:"LOG_PATH"`

	Database string `json:"database" envconfig:"DATABASE"` // "sqlite3" or "postgres"
	DbHost   string `json:"db_host" envconfig:"DB_HOST"`
	DbPort   string `json:"db_port" envconfig:"DB_PORT"`
	DbUser   string `json:"db_user" envconfig:"DB_USER"`
	DbName   string `json:"db_name" envconfig:"DB_NAME"`
	DbPass   string `json:"db_pass" envconfig:"DB_PASS"`

	Security struct {
		JwtSecret string `json:"jwt_secret" envconfig:"JWT_SECRET"`
	} `json:"security"`

	OpenAI struct {
		ApiKey string `json:"api_key" envconfig:"OPENAI_API_KEY"`
		Model  string `json:"model" envconfig:"OPENAI_MODEL"`
	} `json:"openai"`

	Twilio struct {
		AccountSid  string `json:"account_sid" envconfig:"TWILIO_ACCOUNT_SID"`
		AuthToken   string `json:"auth_token" envconfig:"TWILIO_AUTH_TOKEN"`
		PhoneNumber string `json:"phone_number" envconfig:"TWILIO_PHONE_NUMBER"`
	} `json:"twilio"`

	ElevenLabs struct {
		ApiKey string `json:"api_key" envconfig:"ELEVENLABS_API_KEY"`
	} `json:"elevenlabs"`
}

// Get loads the JSON config file (optional) and overlays environment
// variables on top, so deployments can override single values without a
// rebuilt config file.
func Get(path string) Configuration {
	var c Configuration

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(b, &c); err != nil {
				log.Fatal(err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatal(err)
		}
	}

	if err := envconfig.Process("agentflow", &c); err != nil {
		log.Fatal(err)
	}

	// defaults
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4"
	}

	return c
}
