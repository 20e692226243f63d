// Package config defines qodem's configuration surface: the options
// recognized in a YAML config file plus the CLI flags that can
// override them. Parsing failures never abort the process — they log and
// fall back to documented defaults, per the configuration-failure
// policy.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"qodem/internal/logging"
)

// CRLFPolicy controls ASCII transfer newline remapping.
type CRLFPolicy string

const (
	PolicyNone  CRLFPolicy = "none"
	PolicyStrip CRLFPolicy = "strip"
	PolicyAdd   CRLFPolicy = "add"
)

// CaptureType selects a capture/screen-dump/scrollback-save formatter.
type CaptureType string

const (
	CaptureNormal CaptureType = "normal"
	CaptureRaw    CaptureType = "raw"
	CaptureHTML   CaptureType = "html"
	CaptureAsk    CaptureType = "ask"
)

// Config is the full set of options recognized from a config file.
type Config struct {
	DialTimeoutSecs    int  `yaml:"dial-timeout-secs"`
	BetweenDialSecs    int  `yaml:"between-dial-secs"`
	ExitOnDisconnect   bool `yaml:"exit-on-disconnect"`
	IdleTimeoutSecs    int  `yaml:"idle-timeout-secs"`
	ScrollbackMaxLines int  `yaml:"scrollback-max-lines"`
	KeepaliveTimeout   int  `yaml:"keepalive-timeout-secs"`
	KeepaliveBytesRaw  string `yaml:"keepalive-bytes"`

	Assume80Columns bool `yaml:"assume-80-columns"`
	EnqAnswerback   bool `yaml:"enq-answerback"`
	AnsiMusic       bool `yaml:"ansi-music"`
	AnsiAnimate     bool `yaml:"ansi-animate"`

	AvatarAnsiColor  bool `yaml:"avatar-ansi-color"`
	Vt52AnsiColor    bool `yaml:"vt52-ansi-color"`
	Vt100AnsiColor   bool `yaml:"vt100-ansi-color"`
	XtermDoubleWidth bool `yaml:"xterm-double-width"`

	UseExternalSSH    bool `yaml:"use-external-ssh"`
	UseExternalRlogin bool `yaml:"use-external-rlogin"`
	UseExternalTelnet bool `yaml:"use-external-telnet"`

	ZmodemAutostart   bool `yaml:"zmodem-autostart"`
	ZmodemZchallenge  bool `yaml:"zmodem-zchallenge"`
	ZmodemEscapeCtrl  bool `yaml:"zmodem-escape-ctrl"`

	KermitAutostart           bool `yaml:"kermit-autostart"`
	KermitRobustFilename      bool `yaml:"kermit-robust-filename"`
	KermitStreaming           bool `yaml:"kermit-streaming"`
	KermitLongPackets         bool `yaml:"kermit-long-packets"`
	KermitUploadsForceBinary  bool `yaml:"kermit-uploads-force-binary"`
	KermitDownloadsConvert    bool `yaml:"kermit-downloads-convert-text"`
	KermitResend              bool `yaml:"kermit-resend"`

	ISO8859Lang string `yaml:"iso8859-lang"`
	UTF8Lang    string `yaml:"utf8-lang"`

	AsciiUploadCR   CRLFPolicy `yaml:"ascii-upload-cr-policy"`
	AsciiUploadLF   CRLFPolicy `yaml:"ascii-upload-lf-policy"`
	AsciiDownloadCR CRLFPolicy `yaml:"ascii-download-cr-policy"`
	AsciiDownloadLF CRLFPolicy `yaml:"ascii-download-lf-policy"`

	CaptureType         CaptureType `yaml:"capture-type"`
	ScreenDumpType      CaptureType `yaml:"screen-dump-type"`
	ScrollbackSaveType  CaptureType `yaml:"scrollback-save-type"`

	DownloadDir string `yaml:"download-dir"`
}

// KeepaliveBytes strictly parses KeepaliveBytesRaw's \xNN hex escapes,
// returning the documented default (a single NUL) on any parse failure.
func (c *Config) KeepaliveBytes(log *logging.Logger) []byte {
	b, err := ParseHexEscapes(c.KeepaliveBytesRaw)
	if err != nil {
		log.Warn().Err(err).Str("raw", c.KeepaliveBytesRaw).Msg("invalid keepalive-bytes, falling back to default")
		return []byte{0x00}
	}
	if len(b) == 0 || len(b) > 128 {
		log.Warn().Int("len", len(b)).Msg("keepalive-bytes out of bounds, falling back to default")
		return []byte{0x00}
	}
	return b
}

// Load reads a YAML config file at path, applying Defaults() first so any
// field absent from the file keeps its documented default. A missing or
// unparsable file is logged and Defaults() is returned unchanged, per
// the configuration-failure policy.
func Load(path string, log *logging.Logger) *Config {
	cfg := Defaults()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not read config file, using defaults")
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not parse config file, using defaults")
		return Defaults()
	}
	return cfg
}

// Save writes cfg back out as YAML, used by --create-config.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ParseHexEscapes parses a string containing literal bytes and \xNN escapes
// (two hex digits, case-insensitive) into a byte slice. Unlike the legacy
// parser this never applies the broken "'a' + 16" letter-offset
// — hex digits are decoded with strconv.ParseUint so 'a'..'f' and 'A'..'F'
// both resolve to 10..15.
func ParseHexEscapes(s string) ([]byte, error) {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && (s[i+1] == 'x' || s[i+1] == 'X') {
			digits := s[i+2 : i+4]
			v, err := strconv.ParseUint(digits, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("config: bad hex escape %q: %w", s[i:i+4], err)
			}
			out = append(out, byte(v))
			i += 3
			continue
		}
		out = append(out, s[i])
	}
	return out, nil
}

// ParseGeometry parses a "COLSxROWS" string as used by --geometry.
func ParseGeometry(s string) (cols, rows int, err error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("config: bad geometry %q, want COLSxROWS", s)
	}
	cols, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("config: bad geometry columns %q: %w", parts[0], err)
	}
	rows, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("config: bad geometry rows %q: %w", parts[1], err)
	}
	return cols, rows, nil
}

// ScriptDir resolves the script co-process directory, always using the XDG
// layout regardless of host OS.
func ScriptDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg + "/qodem/scripts"
	}
	if home := os.Getenv("HOME"); home != "" {
		return home + "/.config/qodem/scripts"
	}
	return "./qodem-scripts"
}
