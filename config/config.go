// Package config loads the TOML configuration file and layers credential
// environment variables on top.
package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// DataDir is the root directory of the local object store.
	DataDir string `toml:"data_dir"`

	Logging LoggingConfig `toml:"logging"`
	S3      S3Config      `toml:"s3"`
	Lawtalk LawtalkConfig `toml:"lawtalk"`
	Easylaw EasylawConfig `toml:"easylaw"`
	Caselaw CaselawConfig `toml:"caselaw"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type S3Config struct {
	Bucket  string `toml:"bucket"`
	Region  string `toml:"region"`
	Profile string `toml:"profile"`
}

type LawtalkConfig struct {
	BaseURL  string `toml:"base_url"`
	Username string `toml:"-"`
	Password string `toml:"-"`

	// Consultation-case offset window. The end is exclusive; records are
	// requested ten at a time.
	QnaStartOffset int `toml:"qna_start_offset"`
	QnaEndOffset   int `toml:"qna_end_offset"`

	SolvedStartOffset int `toml:"solved_start_offset"`
	SolvedEndOffset   int `toml:"solved_end_offset"`

	// SolvedCategories maps category names to the site's category IDs, one
	// solved-case stream per entry.
	SolvedCategories map[string]string `toml:"solved_categories"`

	GuideStartOffset int `toml:"guide_start_offset"`
	GuideEndOffset   int `toml:"guide_end_offset"`

	// GuideCategories maps category names to the site's category IDs, one
	// guide stream per entry.
	GuideCategories map[string]string `toml:"guide_categories"`

	Interval string `toml:"interval"`
}

type EasylawConfig struct {
	BaseURL string `toml:"base_url"`

	StartPage     int `toml:"start_page"`
	MaxPages      int `toml:"max_pages"`
	MaxEmptyPages int `toml:"max_empty_pages"`

	// Categories maps the site's category IDs to names used in records.
	Categories map[string]string `toml:"categories"`

	// LocalFallback persists pages locally when the remote store rejects
	// them instead of dropping the page.
	LocalFallback bool `toml:"local_fallback"`

	Interval string `toml:"interval"`
	Timeout  string `toml:"timeout"`
}

type CaselawConfig struct {
	BaseURL string `toml:"base_url"`
	OC      string `toml:"-"`

	Keywords []string `toml:"keywords"`
	MaxPages int      `toml:"max_pages"`

	Interval string `toml:"interval"`
	Timeout  string `toml:"timeout"`
}

// Load reads the configuration at path. A missing file is not an error: the
// defaults apply, with environment overrides still layered on. Credentials
// come exclusively from the environment.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DataDir: "data",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Lawtalk: LawtalkConfig{
			BaseURL:        "https://www.lawtalk.co.kr",
			QnaStartOffset: 0,
			QnaEndOffset:   50,
			SolvedCategories: map[string]string{
				"재산범죄": "property-crime",
				"이혼":   "divorce",
				"임금":   "wage",
			},
			GuideCategories: map[string]string{
				"노동_형사":  "criminal",
				"가족":     "family",
				"부동산_건설": "real-estate",
			},
			Interval: "1s",
		},
		Easylaw: EasylawConfig{
			BaseURL:       "https://www.easylaw.go.kr",
			StartPage:     1,
			MaxPages:      500,
			MaxEmptyPages: 3,
			Categories: map[string]string{
				"25":  "가정법률",
				"89":  "아동-청소년_교육",
				"84":  "부동산_임대차",
				"92":  "금융_보험",
				"83":  "사업",
				"91":  "창업",
				"100": "무역_출입국",
				"88":  "소비자",
				"87":  "문화_여가생활",
				"85":  "민형사_소송",
				"90":  "교통_운전",
				"82":  "근로_노동",
				"97":  "복지",
				"81":  "국방_보훈",
				"94":  "정보통신_기술",
				"96":  "환경_에너지",
				"86":  "사회안전_범죄",
				"95":  "국가_및_지자체",
			},
			Interval: "500ms",
			Timeout:  "30s",
		},
		Caselaw: CaselawConfig{
			BaseURL:  "http://www.law.go.kr/DRF",
			Keywords: []string{"근로", "노동", "계약", "임대차", "전세", "월세"},
			MaxPages: 5,
			Interval: "200ms",
			Timeout:  "30s",
		},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Lawtalk.Username, "LAWTALK_ID")
	setString(&cfg.Lawtalk.Password, "LAWTALK_PW")
	setString(&cfg.Caselaw.OC, "LAW_OPEN_API_OC")
	setString(&cfg.S3.Bucket, "AWS_S3_BUCKET")
	setString(&cfg.S3.Region, "AWS_REGION")
	setString(&cfg.S3.Profile, "AWS_PROFILE")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Duration parses s, falling back when empty or malformed.
func Duration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
