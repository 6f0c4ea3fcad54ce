package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwerner/flatkv/lib/codec"
	"github.com/mwerner/flatkv/lib/store"
	"github.com/mwerner/flatkv/lib/store/fstore"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("flatkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetCodec creates a document codec based on configuration
func GetCodec() (codec.ICodec, error) {
	switch viper.GetString("codec") {
	case "json":
		return codec.NewJSONCodec(), nil
	case "jsoniter":
		return codec.NewJSONIterCodec(), nil
	default:
		return nil, fmt.Errorf("invalid codec %s", viper.GetString("codec"))
	}
}

// GetStoreOptions reads store configuration from viper
func GetStoreOptions() (fstore.Options, error) {
	c, err := GetCodec()
	if err != nil {
		return fstore.Options{}, err
	}

	opts := fstore.DefaultOptions()
	opts.Codec = c
	opts.StrictReads = viper.GetBool("strict-reads")
	opts.LockTimeout = time.Duration(viper.GetInt("lock-timeout")) * time.Millisecond
	return opts, nil
}

// OpenStore creates the file-backed store configured via flags/environment
func OpenStore() (store.IDocumentStore, error) {
	path := viper.GetString("file")
	if path == "" {
		return nil, fmt.Errorf("no document file configured (use --file or FLATKV_FILE)")
	}

	opts, err := GetStoreOptions()
	if err != nil {
		return nil, err
	}

	return fstore.New(path, opts)
}
