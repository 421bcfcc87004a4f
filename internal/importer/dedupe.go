package importer

// dedupe 按冲突键去重，同键保留最后出现的记录，位置沿用首次出现处
func dedupe[T any, K comparable](records []T, key func(T) K) []T {
	if len(records) < 2 {
		return records
	}
	index := make(map[K]int, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		k := key(r)
		if i, ok := index[k]; ok {
			out[i] = r
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

type scheduleKey struct {
	nickname string
	day      int
	start    string
}

type raidKey struct {
	typ  string
	mode string
	date int64
}

type pairKey struct {
	a, b string
}

type gemKey struct {
	category string
	level    int
	gemType  string
}
