package businesscentral

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EscapeFilterValue neutraliza comillas simples en un valor destinado a un
// literal string de $filter OData, duplicándolas según la gramática OData.
func EscapeFilterValue(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

// GUIDFilter arma un filtro de igualdad por el id del registro. Los GUID
// viajan sin comillas en OData, así que el valor se valida como UUID antes de
// interpolarse: nada que no sea un GUID llega al ERP.
func GUIDFilter(value string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", fmt.Errorf("id inválido %q: %w", value, err)
	}
	return fmt.Sprintf("id eq %s", id), nil
}

// SearchFilter arma un filtro de búsqueda por displayName o number.
func SearchFilter(term string) string {
	t := EscapeFilterValue(term)
	return fmt.Sprintf("contains(displayName,'%s') or contains(number,'%s')", t, t)
}

// CombineFilters une expresiones de filtro ya formadas con AND. Al combinar,
// las expresiones con OR se agrupan entre paréntesis: en OData AND liga más
// fuerte que OR y sin agrupar el predicado de búsqueda cambiaría de sentido.
func CombineFilters(exprs ...string) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if e != "" {
			parts = append(parts, e)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	for i, e := range parts {
		if strings.Contains(e, " or ") {
			parts[i] = "(" + e + ")"
		}
	}
	return strings.Join(parts, " and ")
}
