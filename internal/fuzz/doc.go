// Package fuzztests houses Go fuzz harnesses for the formatting pipeline
// (source -> lexer -> parser -> layout). They guard against panics, hangs and
// lossy trees on arbitrary input, and check that formatting is idempotent.
//
// Назначение: прогонять произвольные байты через лексер, парсер и форматтер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Запуск: go test ./internal/fuzz -fuzz=FuzzFormatIdempotent -fuzztime=30s
package fuzztests
