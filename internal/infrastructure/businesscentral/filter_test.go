package businesscentral_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-central-api/internal/infrastructure/businesscentral"
)

func TestEscapeFilterValue_DuplicaComillas(t *testing.T) {
	assert.Equal(t, "O''Brien", businesscentral.EscapeFilterValue("O'Brien"))
	assert.Equal(t, "sin cambios", businesscentral.EscapeFilterValue("sin cambios"))
	assert.Equal(t, "''''", businesscentral.EscapeFilterValue("''"))
}

func TestGUIDFilter(t *testing.T) {
	got, err := businesscentral.GUIDFilter("9b3c07f5-4e97-4d3b-9a05-69c0a9d2f001")
	assert.NoError(t, err)
	assert.Equal(t, "id eq 9b3c07f5-4e97-4d3b-9a05-69c0a9d2f001", got)
}

func TestGUIDFilter_RechazaLoQueNoEsGUID(t *testing.T) {
	// El GUID viaja sin comillas, así que cualquier otra cosa se rechaza
	// antes de interpolarse en el $filter.
	for _, bad := range []string{"ITEM-001", "1 or true", "9b3c07f5' or '1' eq '1"} {
		_, err := businesscentral.GUIDFilter(bad)
		assert.Error(t, err, bad)
	}
}

func TestSearchFilter(t *testing.T) {
	got := businesscentral.SearchFilter("tor'nillo")
	assert.Equal(t, "contains(displayName,'tor''nillo') or contains(number,'tor''nillo')", got)
}

func TestCombineFilters(t *testing.T) {
	assert.Equal(t, "a eq '1' and b eq '2'",
		businesscentral.CombineFilters("a eq '1'", "", "b eq '2'"))
	assert.Equal(t, "", businesscentral.CombineFilters("", ""))
}

func TestCombineFilters_AgrupaElOR(t *testing.T) {
	search := businesscentral.SearchFilter("abc")

	// Al combinar con otro filtro, el predicado OR va entre paréntesis:
	// sin agrupar, "raw and A or B" se leería como "(raw and A) or B".
	got := businesscentral.CombineFilters("blocked eq false", search)
	assert.Equal(t,
		"blocked eq false and (contains(displayName,'abc') or contains(number,'abc'))", got)

	// Solo, el predicado se usa tal cual.
	assert.Equal(t, search, businesscentral.CombineFilters("", search))
}
