// Package memory guarda os registros em mapas protegidos por mutex.
// É o armazenamento do modo dev e dos testes de rota; devolve os mesmos
// erros sentinela dos domínios, então os serviços não percebem a troca.
package memory

import "strings"

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
