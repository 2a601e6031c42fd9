package main

import (
	"log"
	"os"

	"agentflow/config"
	"agentflow/controllers"
	"agentflow/db"
	"agentflow/router"
	"agentflow/services"
	"agentflow/tools"
	"agentflow/workers"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.json"
	}
	cfg := config.Get(cfgPath)

	db.SetConfigurations(cfg)
	database, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	controllers.SetJWTSecret(cfg.Security.JwtSecret)

	bundle := buildServices(cfg)

	r := gin.New()
	r.Use(db.SetDBtoContext(database))
	r.Use(services.SetToContext(bundle))
	router.Initialize(r, cfg)

	workers.StartVoiceProcessor(database, bundle)

	log.Printf("AgentFlow listening on :%s", cfg.ApiPort)
	log.Fatal(r.Run(":" + cfg.ApiPort))
}

// buildServices picks the collaborator implementations once, by
// configuration presence. Everything downstream only sees the interfaces.
func buildServices(cfg config.Configuration) *services.Bundle {
	bundle := &services.Bundle{
		AI:         services.StubAI{},
		Classifier: tools.KeywordClassifier{},
		Notifier:   services.StubNotifier{},
		Speech:     services.StubSpeech{},
	}

	if cfg.OpenAI.ApiKey != "" {
		client := tools.NewOpenAIClient(cfg.OpenAI.ApiKey, cfg.OpenAI.Model)
		bundle.AI = client
		bundle.Classifier = tools.OpenAIClassifier{Client: client}
		log.Println("OpenAI client configured")
	} else {
		log.Println("OpenAI key missing: using keyword classifier and stub replies")
	}

	if cfg.Twilio.AccountSid != "" && cfg.Twilio.AuthToken != "" {
		bundle.Notifier = &tools.TwilioClient{
			AccountSid:  cfg.Twilio.AccountSid,
			AuthToken:   cfg.Twilio.AuthToken,
			PhoneNumber: cfg.Twilio.PhoneNumber,
		}
		log.Println("Twilio client configured")
	} else {
		log.Println("Twilio credentials missing: notifications are log-only")
	}

	if cfg.ElevenLabs.ApiKey != "" {
		bundle.Speech = &tools.ElevenLabsClient{ApiKey: cfg.ElevenLabs.ApiKey}
		log.Println("ElevenLabs client configured")
	} else {
		log.Println("ElevenLabs key missing: text-to-speech is stubbed")
	}

	return bundle
}
