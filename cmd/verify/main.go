// Package main checks the bundled reference data and trigger table for
// consistency. It exits non-zero when any check fails.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	"github.com/titansbeer/titans-linebot-go/internal/bot"
	"github.com/titansbeer/titans-linebot-go/internal/cards"
	"github.com/titansbeer/titans-linebot-go/internal/data"
	"github.com/titansbeer/titans-linebot-go/internal/lineutil"
	"github.com/titansbeer/titans-linebot-go/internal/logger"
)

// Verification results
type verifyResult struct {
	name    string
	passed  bool
	message string
}

func main() {
	dir := flag.String("data", "", "reference data directory (default: embedded)")
	flag.Parse()

	fmt.Println("🔍 Titans LineBot - Reference Data Verification")
	fmt.Println("================================================")

	ref := data.Default()
	if *dir != "" {
		ref = data.Load(*dir, logger.NewWithWriter("warn", io.Discard))
	}

	var results []verifyResult
	results = append(results, verifyTriggers()...)
	results = append(results, verifyImages(ref)...)
	results = append(results, verifyProfiles(ref)...)
	results = append(results, verifyPayloadBudget())

	fmt.Println("\n📊 Verification Results:")
	fmt.Println("========================")

	passed, failed := 0, 0
	for _, r := range results {
		status := "❌"
		if r.passed {
			status = "✅"
			passed++
		} else {
			failed++
		}
		fmt.Printf("%s %s: %s\n", status, r.name, r.message)
	}

	fmt.Printf("\n📈 Summary: %d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func verifyTriggers() []verifyResult {
	sets := bot.DefaultTriggers()
	results := []verifyResult{check("Trigger table", bot.ValidateTriggers(sets), fmt.Sprintf("%d commands", len(sets)))}

	covered := make(map[bot.Command]bool, len(sets))
	for _, s := range sets {
		covered[s.Command()] = true
	}
	var missing []string
	for _, cmd := range bot.Commands() {
		if !covered[cmd] {
			missing = append(missing, cmd.String())
		}
	}
	results = append(results, verifyResult{
		name:    "Command coverage",
		passed:  len(missing) == 0,
		message: orDefault(strings.Join(missing, ", "), "every command has triggers"),
	})
	return results
}

func verifyImages(ref *data.Reference) []verifyResult {
	images := map[string]string{
		"size/small":  ref.Sizes().Small,
		"size/goblet": ref.Sizes().Goblet,
		"size/titan":  ref.Sizes().Titan,
	}
	for _, s := range ref.Staff() {
		images["staff/"+s.Name] = s.Image
	}
	for _, h := range ref.Hagehige() {
		images["hagehige/"+h.Name] = h.Image
	}

	var bad []string
	for name, raw := range images {
		if u, err := url.Parse(raw); err != nil || u.Scheme != "https" || u.Host == "" {
			bad = append(bad, name)
		}
	}
	return []verifyResult{{
		name:    "Image URLs",
		passed:  len(bad) == 0,
		message: orDefault(strings.Join(bad, ", "), fmt.Sprintf("%d https images", len(images))),
	}}
}

func verifyProfiles(ref *data.Reference) []verifyResult {
	sets := bot.DefaultTriggers()

	var results []verifyResult
	for _, key := range ref.ProfileKeys() {
		r := verifyResult{name: "Profile " + key, message: "no trigger phrase"}
		for _, s := range sets {
			if s.Matches(bot.Normalize(key)) {
				r.passed, r.message = true, "reachable by trigger"
				break
			}
		}
		results = append(results, r)
	}
	return results
}

// verifyPayloadBudget encodes a worst-case record and checks the postback limit.
func verifyPayloadBudget() verifyResult {
	long := strings.Repeat("Imperial Barrel Aged Triple Hazy ", 10)
	payload := beer.PayloadFor(beer.Record{
		Name:    long,
		Brewery: long,
		Style:   long,
		ABV:     "12.5% ABV",
		Rating:  "4.321",
		Label:   "https://assets.untappd.com/site/beer_logos_hd/" + strings.Repeat("x", 200) + ".jpeg",
	})
	encoded := cards.EncodeSavePayload(payload)
	return verifyResult{
		name:    "Postback budget",
		passed:  len(encoded) <= lineutil.MaxPostbackData,
		message: fmt.Sprintf("%d/%d bytes", len(encoded), lineutil.MaxPostbackData),
	}
}

func check(name string, err error, okMessage string) verifyResult {
	if err != nil {
		return verifyResult{name: name, message: err.Error()}
	}
	return verifyResult{name: name, passed: true, message: okMessage}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
