package env

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// actual environment variables
var MONGO_URI string
var REDIS_ADDR string
var GITHUB_WEBHOOK_SECRET string
var MAIN_BRANCH string
var SKIP_PRIVATE_REPOS bool
var ANTHROPIC_API_KEY string
var ANTHROPIC_MODEL string
var CRAX_SECRET_KEY string
var RAI_API_KEY string
var RAI_REGION string
var RAI_PROJECT string
var RAI_LINKEDIN_TOOL_ID string
var PREFORK bool
var DRAIN_MODE bool
var LOG_LEVEL string

// this is required
var VERSION string

const defaultModel = "claude-haiku-4-5"

func Init(envRoot string, appVersion string) {
	loadEnv(envRoot)
	loadVersion(appVersion)

	PREFORK, _ = strconv.ParseBool(os.Getenv("PREFORK"))
	DRAIN_MODE, _ = strconv.ParseBool(os.Getenv("DRAIN_MODE"))
	SKIP_PRIVATE_REPOS, _ = strconv.ParseBool(os.Getenv("SKIP_PRIVATE_REPOS"))

	MONGO_URI = os.Getenv("MONGO_URI")
	REDIS_ADDR = withDefault("REDIS_ADDR", "127.0.0.1:6379")
	GITHUB_WEBHOOK_SECRET = strings.TrimSpace(os.Getenv("GITHUB_WEBHOOK_SECRET"))
	MAIN_BRANCH = withDefault("MAIN_BRANCH", "refs/heads/main")
	ANTHROPIC_API_KEY = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	ANTHROPIC_MODEL = withDefault("ANTHROPIC_MODEL", defaultModel)
	CRAX_SECRET_KEY = strings.TrimSpace(os.Getenv("CRAX_SECRET_KEY"))
	RAI_API_KEY = os.Getenv("RAI_API_KEY")
	RAI_REGION = os.Getenv("RAI_REGION")
	RAI_PROJECT = os.Getenv("RAI_PROJECT")
	RAI_LINKEDIN_TOOL_ID = os.Getenv("RAI_LINKEDIN_TOOL_ID")
	LOG_LEVEL = withDefault("LOG_LEVEL", "info")
}

func withDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func loadEnv(envRoot string) {
	if envRoot == "" {
		envRoot = repoRoot()
	}

	path := path.Join(envRoot, ".env")
	if err := godotenv.Overload(path); err != nil {
		// The process environment is the source of truth in containers.
		log.Printf("no env file at %s, using process environment", path)
	}
}

func loadVersion(appVersion string) {
	if appVersion == "" {
		data, err := os.ReadFile(filepath.Join(repoRoot(), "VERSION"))
		if err != nil {
			VERSION = "dev"
			return
		}

		trimmed := strings.TrimSpace(string(data))
		if trimmed != "" {
			VERSION = trimmed
		} else {
			VERSION = "dev"
		}
	} else {
		VERSION = appVersion
	}
}

func repoRoot() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}
