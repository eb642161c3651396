// Package format renders a snep forest back to text.
//
// Назначение: обратное преобразование дерева в текст, без потерь для
// корректного входа без лишних разделителей.
// Не делает: разбор, IO файлов, преобразование в другие форматы.
// Зависимости: internal/ast, internal/token.
package format
