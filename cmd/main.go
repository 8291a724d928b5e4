package main

import (
	"net/http"
	"os"

	log15 "github.com/inconshreveable/log15/v3"

	"meetbot/api"
	"meetbot/calendar"
	"meetbot/config"
	"meetbot/db"
	"meetbot/engine"
	"meetbot/notify"
	"meetbot/notion"
	"meetbot/scheduler"
	"meetbot/utils"
)

func main() {
	log := log15.New("module", "main")
	config.LoadEnv()

	if err := db.Init(); err != nil {
		log.Crit("failed to connect to database", "err", err)
		os.Exit(1)
	}
	if err := utils.InitCrypto(); err != nil {
		log.Crit("failed to initialize crypto", "err", err)
		os.Exit(1)
	}
	if err := utils.InitRedis(); err != nil {
		log.Crit("failed to connect to redis", "err", err)
		os.Exit(1)
	}

	if path := os.Getenv("RULES_FILE"); path != "" {
		rules, err := config.LoadRuleSeed(path)
		if err != nil {
			log.Crit("failed to load rule seed file", "path", path, "err", err)
			os.Exit(1)
		}
		created, err := db.SeedGlobalRules(rules)
		if err != nil {
			log.Crit("failed to seed global rules", "err", err)
			os.Exit(1)
		}
		log.Info("seeded global rules", "path", path, "created", created)
	}

	cache := engine.NewRuleCache(db.RuleStore{}, engine.DefaultRuleTTL)
	evaluator := engine.NewEvaluator(cache)
	processor := engine.NewProcessor(
		calendar.NewService(),
		notify.NewSlackNotifier(),
		db.MeetingStore{},
		db.AccountStore{},
		evaluator,
		calendar.BotEmail(),
	)

	api.Init(processor, cache, notion.NewClient())

	c, err := scheduler.Start(processor)
	if err != nil {
		log.Crit("failed to start scheduler", "err", err)
		os.Exit(1)
	}
	defer c.Stop()

	router := SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("server running", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Crit("server failed", "err", err)
		os.Exit(1)
	}
}
