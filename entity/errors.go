package entity

import "errors"

// ErrRepository помечает отказы границы хранилища. Реализации Repository
// оборачивают в него свои ошибки, чтобы вызывающая сторона, работающая
// с репозиторием напрямую, могла отличить отказ хранилища через errors.Is;
// обработчики конвертов по-прежнему кодируют текст отказа в ответе.
var ErrRepository = errors.New("отказ хранилища")
