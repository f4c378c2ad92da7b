package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"songbridge/internal/i18n"
)

const sectionRule = "# -----------------------------------------------------------------------------\n"

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# songbridge Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	fmt.Fprintf(&content, "# Format: %s_<SETTING>=value\n", envPrefix)
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("#\n")
	content.WriteString("# =============================================================================\n\n")

	generateClientSection(&content, cmd)
	generateServerSection(&content, cmd)
	generateProvidersSection(&content)
	generateCacheSection(&content, cmd)
	generateLocalizationSection(&content, cmd)
	generateLoggingSection(&content, cmd)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

// writeSetting emits one commented variable line using the flag's default.
func writeSetting(content *strings.Builder, cmd *cobra.Command, flagName, description string) {
	def := getDefaultValueString(cmd, flagName)
	fmt.Fprintf(content, "%s=%s    # %s (default: %s)\n", flagToEnvVar(flagName), def, description, def)
}

func generateClientSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString(sectionRule)
	content.WriteString("# Popup Client\n")
	content.WriteString(sectionRule)
	content.WriteString("# CLI: --endpoint, --client-timeout\n")

	writeSetting(content, cmd, "endpoint", "Conversion API the popup posts links to")
	writeSetting(content, cmd, "client-timeout", "Request timeout")
	content.WriteString("\n")
}

func generateServerSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString(sectionRule)
	content.WriteString("# Conversion API Server\n")
	content.WriteString(sectionRule)
	content.WriteString("# CLI: --server-host, --server-port, --server-read-timeout, --server-write-timeout,\n")
	content.WriteString("#      --rate-limit-per-minute, --allowed-origin\n")

	writeSetting(content, cmd, "server-host", "Listen address")
	writeSetting(content, cmd, "server-port", "Listen port")
	writeSetting(content, cmd, "server-read-timeout", "Read timeout")
	writeSetting(content, cmd, "server-write-timeout", "Write timeout")
	writeSetting(content, cmd, "rate-limit-per-minute", "Conversions per client per minute, 0 disables")
	writeSetting(content, cmd, "allowed-origin", "CORS allowed origin")
	content.WriteString("\n")
}

func generateProvidersSection(content *strings.Builder) {
	content.WriteString(sectionRule)
	content.WriteString("# Streaming Platforms\n")
	content.WriteString(sectionRule)
	content.WriteString("# CLI: --spotify-client-id, --spotify-client-secret, --youtube-api-key\n")
	content.WriteString("# Spotify lookups are disabled without credentials (https://developer.spotify.com/dashboard).\n")
	content.WriteString("# YouTube Music search needs a YouTube Data API v3 key; lookups work without one.\n")
	content.WriteString("# Deezer, Apple Music and SoundCloud need no credentials.\n")

	fmt.Fprintf(content, "%s=your_spotify_client_id\n", flagToEnvVar("spotify-client-id"))
	fmt.Fprintf(content, "%s=your_spotify_client_secret\n", flagToEnvVar("spotify-client-secret"))
	fmt.Fprintf(content, "%s=\n", flagToEnvVar("youtube-api-key"))
	content.WriteString("\n")
}

func generateCacheSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString(sectionRule)
	content.WriteString("# Result Cache\n")
	content.WriteString(sectionRule)
	content.WriteString("# CLI: --cache-size, --cache-ttl\n")

	writeSetting(content, cmd, "cache-size", "Maximum cached conversions")
	writeSetting(content, cmd, "cache-ttl", "Cache entry lifetime")
	content.WriteString("\n")
}

func generateLocalizationSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString(sectionRule)
	content.WriteString("# Localization\n")
	content.WriteString(sectionRule)
	content.WriteString("# CLI: --language\n")

	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	writeSetting(content, cmd, "language", "Message language: "+supportedLangs)
	content.WriteString("\n")
}

func generateLoggingSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString(sectionRule)
	content.WriteString("# Logging Configuration\n")
	content.WriteString(sectionRule)
	content.WriteString("# CLI: --log-level\n")

	writeSetting(content, cmd, "log-level", "Log level: debug, info, warn, error")
	content.WriteString("\n")
}
