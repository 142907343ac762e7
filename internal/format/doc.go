// Package format turns a parsed TOML document into canonical text.
//
// Назначение: генерация layout-инструкций по синтаксическому дереву и печать.
// Не делает: разбор (internal/parser), сортировку Cargo.toml (internal/cargo) и IO.
// Зависимости: internal/syntax, internal/layout, internal/config.
package format
