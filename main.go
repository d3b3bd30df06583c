package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"keyword-research/internal/app"
	"keyword-research/internal/config"
	"keyword-research/pkg/aggregator"
	"keyword-research/pkg/keyword"
	"keyword-research/pkg/logger"
	"keyword-research/pkg/provider"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

var profiles = map[string]aggregator.Profile{
	aggregator.ProfileOverview.Name: aggregator.ProfileOverview,
	aggregator.ProfileIdeas.Name:    aggregator.ProfileIdeas,
}

func main() {
	var (
		kw         = flag.String("keyword", "", "Keyword to research")
		country    = flag.String("country", getEnvOrDefault("COUNTRY", "us"), "Country code (env: COUNTRY)")
		profile    = flag.String("profile", getEnvOrDefault("PROFILE", aggregator.ProfileOverview.Name), "Document profile: overview or ideas (env: PROFILE)")
		configPath = flag.String("config", getEnvOrDefault("CONFIG", ""), "Optional configuration file (env: CONFIG)")
		dataset    = flag.String("dataset", getEnvOrDefault("DATASET_FILE", ""), "JSON dataset file, overrides database settings (env: DATASET_FILE)")
		start      = flag.Int("start", getEnvIntOrDefault("SERP_START", provider.DefaultSERPStart), "First SERP position (env: SERP_START)")
		num        = flag.Int("num", getEnvIntOrDefault("SERP_NUM", provider.DefaultSERPNum), "Number of SERP results (env: SERP_NUM)")
		timeout    = flag.Duration("timeout", 2*time.Minute, "Overall research timeout")
		debug      = flag.Bool("debug", getEnvBoolOrDefault("DEBUG", false), "Enable debug logging (env: DEBUG)")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	if err := run(*configPath, *dataset, *kw, *country, *profile, *start, *num, *timeout, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dataset, kw, country, profileName string, start, num int, timeout time.Duration, debug bool) error {
	profile, ok := profiles[profileName]
	if !ok {
		return fmt.Errorf("unknown profile %q", profileName)
	}

	cfg, err := config.NewManager().Load(configPath)
	if err != nil {
		return err
	}
	if dataset != "" {
		cfg.Database.DSN = ""
		cfg.Database.DatasetFile = dataset
	}

	level := "warn"
	if debug {
		level = "debug"
	}
	logger.SetLogger(logger.New(logger.Config{Level: level, Format: "console", Output: "stderr"}))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	research, err := app.NewBuilder().WithConfig(cfg).Build(ctx)
	if err != nil {
		return err
	}
	defer research.Close()

	q, err := research.Validator.NewQuery(kw, country)
	if err != nil {
		if errors.Is(err, keyword.ErrInvalidCountry) {
			return fmt.Errorf("invalid country code %q", country)
		}
		return fmt.Errorf("invalid keyword or country parameter")
	}

	doc := research.Engine.Research(ctx, aggregator.Request{
		Query:   q,
		Profile: profile,
		SERP:    provider.SERPOptions{Start: start, Num: num},
	})

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func printUsage() {
	fmt.Println("Keyword Research CLI")
	fmt.Println("")
	fmt.Println("USAGE:")
	fmt.Println("    ./keyword-research -keyword <KEYWORD> [OPTIONS]")
	fmt.Println("")
	fmt.Println("OPTIONS:")
	fmt.Println("    -keyword string   Keyword to research (letters and spaces)")
	fmt.Println("    -country string   Country code (default: us, env: COUNTRY)")
	fmt.Println("    -profile string   overview or ideas (default: overview, env: PROFILE)")
	fmt.Println("    -config string    Configuration file (env: CONFIG)")
	fmt.Println("    -dataset string   JSON dataset file (env: DATASET_FILE)")
	fmt.Println("    -start int        First SERP position (default: 1, env: SERP_START)")
	fmt.Println("    -num int          SERP results (default: 10, env: SERP_NUM)")
	fmt.Println("    -timeout duration Overall timeout (default: 2m)")
	fmt.Println("    -debug            Enable debug logging (env: DEBUG)")
	fmt.Println("")
	fmt.Println("Provider endpoints and keys come from the config file or KWR_* variables,")
	fmt.Println("e.g. KWR_PROVIDERS_SERP_ENDPOINT and KWR_PROVIDERS_SERP_API_KEY.")
	fmt.Println("")
	fmt.Println("EXAMPLES:")
	fmt.Println("    ./keyword-research -dataset config/sample_dataset.json -keyword \"seo tools\" -country uk")
	fmt.Println("    ./keyword-research -config config/dev.yaml -keyword \"digital marketing\" -profile ideas")
}
