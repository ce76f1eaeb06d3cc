// Package i18n looks up display text by dotted key in a locale table.
// Lookups never fail: a missing key renders as the key itself.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/dbmrq/globe/internal/logging"
)

//go:embed locales/*.json
var bundled embed.FS

// Supported lists the bundled locales. The first entry is the fallback.
var Supported = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var matcher = language.NewMatcher(Supported)

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Params are the values substituted into {name} placeholders.
type Params map[string]any

// Options configures a Translator.
type Options struct {
	// Locale is a BCP 47 tag matched against Supported. Empty means pt-BR.
	Locale string
	// File replaces the bundled table with a .json, .yaml or .yml file.
	File string
}

// Translator resolves keys against one locale table.
type Translator struct {
	tag     language.Tag
	file    string
	printer *message.Printer

	once  sync.Once
	table map[string]any
}

// New creates a Translator. The table is loaded on first use.
func New(opts Options) *Translator {
	tag := Match(opts.Locale)
	return &Translator{
		tag:     tag,
		file:    opts.File,
		printer: message.NewPrinter(tag),
	}
}

// Match returns the supported locale closest to name.
func Match(name string) language.Tag {
	if name == "" {
		return Supported[0]
	}
	requested, err := language.Parse(name)
	if err != nil {
		return Supported[0]
	}
	_, idx, conf := matcher.Match(requested)
	if conf == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// Tag returns the matched locale.
func (t *Translator) Tag() language.Tag {
	return t.tag
}

func (t *Translator) load() {
	t.once.Do(func() {
		table, err := t.readTable()
		if err != nil {
			logging.Debug("failed to load locale table", "locale", t.tag.String(), "file", t.file, "error", err)
			table = map[string]any{}
		}
		t.table = table
	})
}

func (t *Translator) readTable() (map[string]any, error) {
	var (
		data []byte
		err  error
		ext  = ".json"
	)
	if t.file != "" {
		data, err = os.ReadFile(t.file)
		ext = strings.ToLower(filepath.Ext(t.file))
	} else {
		data, err = bundled.ReadFile("locales/" + t.tag.String() + ".json")
	}
	if err != nil {
		return nil, err
	}

	table := map[string]any{}
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &table)
	default:
		err = json.Unmarshal(data, &table)
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

// T returns the text for a dotted key with {name} placeholders replaced
// from params. Placeholders without a param are left as they are.
// If the key does not resolve, T returns the key.
func (t *Translator) T(key string, params Params) string {
	t.load()

	var value any = t.table
	for _, k := range strings.Split(key, ".") {
		switch node := value.(type) {
		case map[string]any:
			v, ok := node[k]
			if !ok {
				return key
			}
			value = v
		case []any:
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 || i >= len(node) {
				return key
			}
			value = node[i]
		default:
			return key
		}
	}

	switch v := value.(type) {
	case string:
		return placeholder.ReplaceAllStringFunc(v, func(match string) string {
			name := match[1 : len(match)-1]
			if p, ok := params[name]; ok && p != nil {
				return fmt.Sprint(p)
			}
			return match
		})
	case nil, map[string]any, []any:
		return key
	case bool:
		if !v {
			return key
		}
	case int:
		if v == 0 {
			return key
		}
	case float64:
		if v == 0 {
			return key
		}
	}
	return fmt.Sprint(value)
}

// Number formats n with the locale's digit grouping. Whole numbers print
// without decimals.
func (t *Translator) Number(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return t.printer.Sprintf("%d", int64(n))
	}
	return t.printer.Sprintf("%.2f", n)
}

var (
	defaultMu         sync.RWMutex
	defaultTranslator = New(Options{})
)

// Default returns the package translator.
func Default() *Translator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultTranslator
}

// SetDefault replaces the package translator. Nil restores the pt-BR table.
func SetDefault(t *Translator) {
	if t == nil {
		t = New(Options{})
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultTranslator = t
}

// T looks key up in the package translator.
func T(key string, params Params) string {
	return Default().T(key, params)
}

// Number formats n with the package translator.
func Number(n float64) string {
	return Default().Number(n)
}
