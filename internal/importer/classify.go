package importer

import (
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"storefront/internal/domain"
)

// categoryKeywords is checked in order; the first category with a matching keyword wins.
var categoryKeywords = []struct {
	category domain.Category
	keywords []string
}{
	{domain.CategoryBeverage, []string{"americano", "latte", "milk", "coffee", "cappuccino", "juice", "wine"}},
	{domain.CategoryBread, []string{"croissant", "ciabatta", "brioche", "baguette", "scone", "pretzel", "muffin"}},
	{domain.CategoryCake, []string{"cake", "macaron", "pie", "tart"}},
}

type priceRange struct {
	min, max int64
}

var categoryPrices = map[domain.Category]priceRange{
	domain.CategoryBeverage: {3500, 6000},
	domain.CategoryBread:    {2000, 5000},
	domain.CategoryCake:     {5000, 9000},
	domain.CategoryAll:      {3000, 3000},
}

const (
	priceStep    = 100
	stockMin     = 50
	stockMax     = 200
	stockStep    = 10
	maxAgeInDays = 30
)

// displayNames maps filename tokens to shop names. Earlier entries take precedence.
var displayNames = []struct {
	token string
	name  string
}{
	{"americano", "아메리카노"},
	{"latte", "바닐라라떼"},
	{"milk", "우유"},
	{"coffee", "커피"},
	{"cappuccino", "카푸치노"},
	{"juice", "주스"},
	{"wine", "와인"},
	{"croissant", "크로아상"},
	{"ciabatta", "치아바타"},
	{"brioche", "브리오슈"},
	{"baguette", "바게트"},
	{"pretzel", "프레첼"},
	{"scone", "스콘"},
	{"focaccia", "포카치아"},
	{"donut", "도넛"},
	{"muffin", "머핀"},
	{"roll", "버터롤"},
	{"bread", "식빵"},
	{"bun", "모닝빵"},
	{"pie", "애플파이"},
	{"tart", "타르트"},
	{"cake", "케이크"},
	{"macaron", "마카롱"},
}

var (
	tastes   = []string{"달콤하고", "고소하고", "부드럽고", "상큼하고", "진한", "담백하고", "촉촉한", "향긋한"}
	features = []string{"풍미가 느껴져요", "맛이 나요", "향이 가득해요", "식감이 좋아요", "기분이 좋아져요"}
)

// Classify builds a sample product for an image file. rng supplies every random choice so a
// seeded generator yields the same product for the same file.
func Classify(filename string, rng *rand.Rand, today time.Time) domain.Product {
	category := Category(filename)
	name := DisplayName(filename)

	pr := categoryPrices[category]
	price := pr.min + int64(rng.IntN(int((pr.max-pr.min)/priceStep)+1))*priceStep
	stock := stockMin + rng.IntN((stockMax-stockMin)/stockStep+1)*stockStep
	description := name + "는 " + tastes[rng.IntN(len(tastes))] + " " + features[rng.IntN(len(features))] + "."

	y, m, d := today.Date()
	inputDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(rng.IntN(maxAgeInDays) + 1))

	return domain.Product{
		Name:        name,
		Price:       price,
		Category:    category,
		Stock:       stock,
		Image:       filepath.Base(filename),
		Description: description,
		InputDate:   &inputDate,
	}
}

// Category picks the category whose keywords appear in the filename, or ALL.
func Category(filename string) domain.Category {
	lower := strings.ToLower(filepath.Base(filename))
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return domain.CategoryAll
}

// DisplayName turns "vanilla_latte2.jpg" into a shop name. Unknown names keep the cleaned
// filename.
func DisplayName(filename string) string {
	cleaned := cleanName(filename)
	lower := strings.ToLower(cleaned)
	for _, dn := range displayNames {
		if strings.Contains(lower, dn.token) {
			return dn.name
		}
	}
	return cleaned
}

func cleanName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, base)
	return strings.TrimSpace(base)
}
