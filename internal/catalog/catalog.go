package catalog

import (
	"fmt"
	"strings"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// StorageKey is the single namespaced key the catalog is persisted under.
const StorageKey = "machi_koro_all_facilities_v2"

// DefaultFacilities is the catalog used when nothing has been persisted yet.
var DefaultFacilities = []string{
	"麦畑",
	"牧場",
	"森林",
	"鉱山",
	"リンゴ園",
	"花畑",
	"サンマ漁船",
	"マグロ漁船",
	"パン屋",
	"コンビニ",
	"チーズ工場",
	"家具工場",
	"青果市場",
	"フラワーショップ",
	"食品倉庫",
	"カフェ",
	"ファミレス",
	"寿司屋",
	"ピザ屋",
	"バーガーショップ",
	"スタジアム",
	"テレビ局",
	"ビジネスセンター",
	"出版社",
	"税務署",
	"改装屋",
	"公園",
	"ブドウ園",
	"会員制BAR",
	"高級フレンチ",
	"引っ越し屋",
	"ドリンク工場",
	"雑貨屋",
	"ワイナリー",
	"ITベンチャー",
	"コーン畑",
	"貸金業",
	"清掃業",
}

// Defaults returns a copy of DefaultFacilities.
func Defaults() []string {
	out := make([]string, len(DefaultFacilities))
	copy(out, DefaultFacilities)
	return out
}

// Normalize trims every entry, drops empty ones and removes duplicates.
// The first occurrence wins, so the relative order is preserved.
func Normalize(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ParseBulk parses newline separated text into a normalized catalog.
func ParseBulk(text string) ([]string, error) {
	list := Normalize(strings.Split(text, "\n"))
	if len(list) == 0 {
		return nil, types.ErrEmptyCatalogEdit
	}
	return list, nil
}

// Validate checks that a list is non-empty after normalization and returns the normalized copy.
func Validate(list []string) ([]string, error) {
	out := Normalize(list)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: got %d raw entries", types.ErrEmptyCatalogEdit, len(list))
	}
	return out, nil
}

// FormatBulk is the inverse of ParseBulk.
func FormatBulk(list []string) string {
	return strings.Join(list, "\n")
}

func Contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

// Subtract returns the items of list that are not in remove, keeping list order.
func Subtract(list, remove []string) []string {
	drop := make(map[string]struct{}, len(remove))
	for _, r := range remove {
		drop[r] = struct{}{}
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if _, ok := drop[v]; ok {
			continue
		}
		out = append(out, v)
	}
	return out
}
