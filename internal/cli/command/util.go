package command

import (
	"sort"
	"strconv"

	"github.com/Mesbahzade/tdesktop/internal/core/autodownload"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
)

func sortedStrings[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func autoDownloadMap(f autodownload.Full) map[string]map[string]int32 {
	out := make(map[string]map[string]int32)
	for _, source := range autodownload.Sources() {
		limits := make(map[string]int32)
		for _, kind := range autodownload.Types() {
			limits[kind.String()] = f.Limit(source, kind)
		}
		out[source.String()] = limits
	}
	return out
}

func parseSource(s string) (autodownload.Source, error) {
	for _, source := range autodownload.Sources() {
		if source.String() == s {
			return source, nil
		}
	}
	return 0, domain.ErrInvalidArgument.WithDetails("unknown source " + strconv.Quote(s))
}

func parseType(s string) (autodownload.Type, error) {
	for _, kind := range autodownload.Types() {
		if kind.String() == s {
			return kind, nil
		}
	}
	return 0, domain.ErrInvalidArgument.WithDetails("unknown media type " + strconv.Quote(s))
}
