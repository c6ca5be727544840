package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const defaultPath = "config.json"

// TemplatePath is the credentials template shipped with the binary. It is
// copied into place when no config exists yet.
const TemplatePath = "config.template.json"

type Config struct {
	NewChatsFolder string            `json:"new_chats_folder"`
	Telegram       Credentials       `json:"telegram"`
	Mongo          map[string]string `json:"mongo"`
}

type Credentials struct {
	BotToken    string `json:"bot_token"`
	ApiId       int    `json:"api_id"`
	ApiHash     string `json:"api_hash"`
	PhoneNumber string `json:"phone_number"`
	Me          int64  `json:"me"`
}

// Valid reports whether the credential set is complete enough to attempt a
// connection. A partially filled config counts as invalid as a whole.
func (c *Credentials) Valid() bool {
	return c.BotToken != "" &&
		c.ApiId > 0 &&
		c.ApiHash != "" &&
		c.PhoneNumber != "" &&
		c.Me > 0
}

// Path resolves the config file location, overridable via TGSCOUT_CONFIG.
func Path() string {
	if p := os.Getenv("TGSCOUT_CONFIG"); p != "" {
		return p
	}
	return defaultPath
}

// Load reads the config file. A missing file yields a zero (and therefore
// invalid) config rather than an error; the caller decides what to do with it.
func Load() (*Config, error) {
	var cfg = Config{}
	path := Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, nil
	}
	if err := UnmarshalJsonFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &cfg, nil
}

func UnmarshalJsonFile(path string, dest interface{}) error {

	if jsonFile, err := os.Open(path); err != nil {
		return fmt.Errorf("failed to open json file: %w", err)
	} else {
		defer jsonFile.Close()

		if byteValue, err := io.ReadAll(jsonFile); err != nil {
			return fmt.Errorf("failed to read json file: %w", err)
		} else {
			if err := json.Unmarshal(byteValue, &dest); err != nil {
				return fmt.Errorf("failed to parse json file: %w", err)
			}
		}
	}

	return nil
}

// SessionPath derives the account session file location next to the config,
// keyed by the self chat id.
func (c *Config) SessionPath() string {
	return filepath.Join(filepath.Dir(Path()), fmt.Sprintf("tg-%d.session", c.Telegram.Me))
}

// HandleInvalid is the best-effort recovery path for a missing or incomplete
// config: seed config.json from the template when possible and open it in an
// editor. Every step is log-only; the engine stays disabled either way.
func HandleInvalid(log *slog.Logger) {
	path := Path()
	log.Warn("invalid or missing configuration detected")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, terr := os.Stat(TemplatePath); terr == nil {
			log.Info("creating config from template", "path", path)
			if cerr := copyFile(TemplatePath, path); cerr != nil {
				log.Error("failed to create config from template", "error", cerr)
			} else {
				log.Info("config file created, fill in your telegram credentials", "path", path)
			}
		}
	}

	if err := openEditor(path); err != nil {
		log.Error("failed to open config for editing", "error", err)
		abs, _ := filepath.Abs(path)
		log.Info("please edit the config file manually", "path", abs)
	}
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func openEditor(path string) error {
	if editor := os.Getenv("EDITOR"); editor != "" {
		cmd := exec.Command(editor, path)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	var opener string
	switch runtime.GOOS {
	case "darwin":
		opener = "open"
	case "windows":
		opener = "explorer"
	default:
		opener = "xdg-open"
	}

	return exec.Command(opener, path).Start()
}
