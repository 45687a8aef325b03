// Package fuzztests houses Go fuzz harnesses over the Bobbin pipeline
// (source -> lexer -> parser -> resolver -> compiler -> VM). Their goal is
// to smoke test robustness: no panics, no hangs, no broken invariants on
// arbitrary input.
//
// Назначение: прогонять произвольные байты через весь конвейер и проверять
// инварианты из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
