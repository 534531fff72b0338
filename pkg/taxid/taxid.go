// Package taxid normaliza y valida identificadores fiscales brasileños (CPF y CNPJ).
package taxid

import (
	"errors"
	"fmt"
)

// Longitudes válidas tras eliminar todo carácter no numérico.
const (
	LenCPF  = 11 // persona física
	LenCNPJ = 14 // persona jurídica
)

// Kind tipo de documento según su longitud.
type Kind string

const (
	KindCPF     Kind = "cpf"
	KindCNPJ    Kind = "cnpj"
	KindUnknown Kind = ""
)

var (
	ErrEmpty         = errors.New("taxid: sin dígitos")
	ErrInvalidLength = errors.New("taxid: longitud inválida")
	ErrCheckDigit    = errors.New("taxid: dígito verificador inválido")
)

// pesos módulo 11 de la Receita Federal.
var (
	cpfWeights1  = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights2  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits devuelve s sin ningún carácter que no sea dígito ASCII, conservando el orden.
// "123.456.789-09" -> "12345678909".
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// Normalize limpia raw y exige 11 (CPF) o 14 (CNPJ) dígitos.
// No verifica dígitos verificadores; para eso ver ValidateCheckDigits.
func Normalize(raw string) (string, error) {
	d := Digits(raw)
	if d == "" {
		return "", ErrEmpty
	}
	if KindOf(d) == KindUnknown {
		return "", fmt.Errorf("%w: %d dígitos (se esperan %d o %d)", ErrInvalidLength, len(d), LenCPF, LenCNPJ)
	}
	return d, nil
}

// KindOf clasifica una cadena ya normalizada por su longitud.
func KindOf(digits string) Kind {
	switch len(digits) {
	case LenCPF:
		return KindCPF
	case LenCNPJ:
		return KindCNPJ
	default:
		return KindUnknown
	}
}

// ValidateCheckDigits verifica los dos dígitos verificadores de un CPF o CNPJ normalizado.
// Rechaza también secuencias repetidas ("00000000000"), que pasan el módulo 11.
func ValidateCheckDigits(digits string) error {
	var w1, w2 []int
	switch KindOf(digits) {
	case KindCPF:
		w1, w2 = cpfWeights1, cpfWeights2
	case KindCNPJ:
		w1, w2 = cnpjWeights1, cnpjWeights2
	default:
		return fmt.Errorf("%w: %d dígitos", ErrInvalidLength, len(digits))
	}
	if allSame(digits) {
		return fmt.Errorf("%w: secuencia repetida", ErrCheckDigit)
	}

	n := len(digits)
	first := computeDigit(digits[:n-2], w1)
	second := computeDigit(digits[:n-2]+string(first), w2)
	if digits[n-2] != first || digits[n-1] != second {
		return fmt.Errorf("%w: esperado %c%c, recibido %s", ErrCheckDigit, first, second, digits[n-2:])
	}
	return nil
}

func computeDigit(base string, weights []int) byte {
	var sum int
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + (11 - remainder))
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
