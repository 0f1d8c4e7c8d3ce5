package sources

import (
	"regexp"
	"strings"
)

var junkCities = map[string]bool{
	"hybrid": true, "remote": true, "in-office": true, "all offices": true,
	"n/a": true, "na": true, "distributed": true, "hybrid; in-office": true,
	"distributed; hybrid": true, "united states": true, "us-rem": true,
	"us-remote": true,
}

var cityAliases = map[string]string{
	"den bosch":              "'s-Hertogenbosch",
	"s-hertogenbosch":        "'s-Hertogenbosch",
	"'s-hertogenbosch":       "'s-Hertogenbosch",
	"'s- hertogenbosch":      "'s-Hertogenbosch",
	"’s-hertogenbosch":       "'s-Hertogenbosch",
	"the hague":              "Den Haag",
	"den hague":              "Den Haag",
	"capelle a/d ijssel":     "Capelle aan den IJssel",
	"capelle aan den ijssel": "Capelle aan den IJssel",
	"rijswijk (zh)":          "Rijswijk",
	"rijswijk (zh.)":         "Rijswijk",
	"'t harde":               "'t Harde",
}

var nlCities = map[string]bool{
	"amsterdam": true, "rotterdam": true, "utrecht": true, "eindhoven": true,
	"den haag": true, "the hague": true, "groningen": true, "tilburg": true,
	"almere": true, "breda": true, "nijmegen": true, "enschede": true,
	"haarlem": true, "arnhem": true, "delft": true, "maastricht": true,
	"apeldoorn": true, "leiden": true, "zwolle": true, "deventer": true,
	"helmond": true, "alkmaar": true, "zaandam": true, "amersfoort": true,
	"hilversum": true, "dordrecht": true, "zoetermeer": true, "leeuwarden": true,
	"ede": true, "emmen": true, "venlo": true, "schiedam": true,
	"purmerend": true, "gouda": true, "hoofddorp": true, "amstelveen": true,
}

var (
	parenSuffixRegex = regexp.MustCompile(`\s*\(.*?\)`)
	qualifierRegex   = regexp.MustCompile(`(?i)\s+(?:HQ|Office|Campus|Area|Region|Center|Centre)$`)
)

// SplitLocation parses a raw board location ("Amsterdam, Netherlands",
// "Remote - NL") into (city, country). Either may come back empty.
func SplitLocation(raw string) (city, country string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}

	text := strings.ToLower(raw)
	for _, marker := range []string{"netherlands", "nederland", " nl", "(nl", "nl)"} {
		if strings.Contains(text, marker) {
			country = "Netherlands"
			break
		}
	}
	if country == "" {
		for c := range nlCities {
			if strings.Contains(text, c) {
				country = "Netherlands"
				break
			}
		}
	}

	switch {
	case strings.Contains(raw, ","):
		city = strings.TrimSpace(strings.Split(raw, ",")[0])
	case strings.Contains(raw, " - "):
		parts := strings.Split(raw, " - ")
		city = strings.TrimSpace(parts[len(parts)-1])
	default:
		city = raw
	}

	if strings.Contains(text, "remote") {
		city = ""
	}

	return normalizeCity(city), country
}

// normalizeCity strips junk labels, parenthetical suffixes and multi-city
// lists, then applies spelling aliases.
func normalizeCity(city string) string {
	city = strings.TrimSpace(city)
	if city == "" || junkCities[strings.ToLower(city)] {
		return ""
	}

	city = strings.TrimSpace(parenSuffixRegex.ReplaceAllString(city, ""))
	city = strings.TrimSpace(qualifierRegex.ReplaceAllString(city, ""))
	if city == "" || strings.HasPrefix(city, "US >") || strings.HasPrefix(city, "US-") {
		return ""
	}

	for _, sep := range []string{";", "|", "/"} {
		if !strings.Contains(city, sep) {
			continue
		}
		// "Capelle a/d IJssel" keeps its slash.
		if sep == "/" && strings.Contains(strings.ToLower(city), " a/d ") {
			continue
		}
		city = strings.TrimSpace(strings.Split(city, sep)[0])
	}
	city = strings.TrimRight(city, ";.,")
	if city == "" {
		return ""
	}

	cl := strings.ToLower(city)
	if alias, ok := cityAliases[cl]; ok {
		return alias
	}
	if nlCities[cl] {
		return titleCase(cl)
	}
	return city
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
