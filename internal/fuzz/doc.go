// Package fuzztests houses Go fuzz harnesses for the snep pipeline
// (source -> lexer -> parser -> serializer). They guard against panics,
// hangs and non-idempotent rendering on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через лексер, парсер и рендер и
// проверять инварианты из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
