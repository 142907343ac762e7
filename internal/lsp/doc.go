// Package lsp serves tomlfmt over the Language Server Protocol.
//
// Назначение:
//   - жизненный цикл initialize / shutdown / exit;
//   - хранение открытых документов (полная синхронизация);
//   - textDocument/formatting: одна правка на весь документ;
//   - публикация синтаксических диагностик при открытии и изменении.
//
// Транспорт и типы сообщений: go.lsp.dev/jsonrpc2 и go.lsp.dev/protocol.
package lsp
