// Package fuzztests houses Go fuzz harnesses for the Markdown pipeline
// (source -> goldmark -> rules -> classification). They smoke test
// robustness against panics and hangs on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через processor и validate,
// проверяя инварианты диагностик.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/processor, internal/validate,
// internal/fix, internal/testkit.
package fuzztests
