package inventory

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultImage is the card image for parsed items without a picture.
const DefaultImage = "./images/default-tire.jpg"

// DefaultLineQuantity is how many tires one price-list line stands for.
const DefaultLineQuantity = 4

var (
	sizePattern      = regexp.MustCompile(`(\d{3})/(\d{2})\s?R(\d{2})C?`)
	loadIndexPattern = regexp.MustCompile(`^\s*(\d{2,4}(?:/\d{2,4})?[A-Z]{1,2})(?:\s|$)`)
	tagPattern       = regexp.MustCompile(`\(([^)]*)\)`)
)

// location tags used in the shop's price lists
var tagLocations = map[string]string{
	"ck":  "stock",
	"сk":  "stock", // Cyrillic "с" shows up in hand-typed lists
	"vit": "showroom",
	"pd":  "basement",
}

// ParseList turns a raw price list, one tire per line, into catalog items:
//
//	205/55 R16 91H WestLake SW608 (vit) (шт.)
//
// Lines without a recognisable size are skipped. Prices start at zero.
func ParseList(text string) []*models.TireItem {
	var items []*models.TireItem

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		if item, ok := parseLine(strings.TrimSpace(sc.Text())); ok {
			items = append(items, item)
		}
	}
	return items
}

func parseLine(line string) (*models.TireItem, bool) {
	loc := sizePattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, false
	}
	m := sizePattern.FindStringSubmatch(line)
	width, _ := strconv.Atoi(m[1])
	profile, _ := strconv.Atoi(m[2])
	radius, _ := strconv.Atoi(m[3])

	rest := line[loc[1]:]
	var loadIndex string
	if li := loadIndexPattern.FindStringSubmatch(rest); li != nil {
		loadIndex = li[1]
		rest = strings.TrimPrefix(strings.TrimSpace(rest), li[1])
	}

	location := "showroom"
	for _, tag := range tagPattern.FindAllStringSubmatch(rest, -1) {
		if l, ok := tagLocations[strings.ToLower(strings.TrimSpace(tag[1]))]; ok {
			location = l
		}
	}
	rest = tagPattern.ReplaceAllString(rest, " ")

	words := strings.Fields(rest)
	if len(words) == 0 {
		return nil, false
	}

	item := &models.TireItem{
		Brand:     words[0],
		Model:     strings.Join(words[1:], " "),
		Width:     width,
		Profile:   profile,
		Radius:    radius,
		LoadIndex: loadIndex,
		Season:    DetectSeason(line),
		Price:     decimal.Zero,
		Image:     DefaultImage,
	}
	switch location {
	case "stock":
		item.Stock = DefaultLineQuantity
	case "basement":
		item.Basement = DefaultLineQuantity
	default:
		item.Showroom = DefaultLineQuantity
	}
	return item, true
}

// DetectSeason guesses the season from a product description.
func DetectSeason(text string) models.Season {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "winter"), strings.Contains(t, "ice"), strings.Contains(t, "snow"):
		return models.SeasonWinter
	case strings.Contains(t, "allseason"), strings.Contains(t, "all season"), strings.Contains(t, "all-season"):
		return models.SeasonAllSeason
	default:
		return models.SeasonSummer
	}
}
