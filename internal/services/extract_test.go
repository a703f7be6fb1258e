package services

import (
	"testing"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetrics_KeepsMaximum(t *testing.T) {
	items := []models.NewsItem{
		item("a", "Sobe para 46 mortes em Juiz de Fora", "", ""),
		item("b", "Boletim confirma 40 mortes", "", ""),
	}

	p := ExtractMetrics(items)
	require.NotNil(t, p.Deaths)
	assert.Equal(t, 46, *p.Deaths)
}

func TestExtractMetrics_Patterns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.PartialMetrics
	}{
		{
			name: "deaths as óbitos",
			text: "Prefeitura confirma 12 óbitos",
			want: models.PartialMetrics{Deaths: intPtr(12)},
		},
		{
			name: "deaths as vítimas fatais",
			text: "São 7 vítimas fatais até agora",
			want: models.PartialMetrics{Deaths: intPtr(7)},
		},
		{
			name: "case insensitive",
			text: "21 DESAPARECIDOS após temporal",
			want: models.PartialMetrics{Missing: intPtr(21)},
		},
		{
			name: "thousands separator",
			text: "Cidade tem 3.400 desabrigados e 400 desalojados",
			want: models.PartialMetrics{Sheltered: intPtr(3400), Displaced: intPtr(400)},
		},
		{
			name: "feminine forms",
			text: "15 desabrigadas e 1 desaparecida",
			want: models.PartialMetrics{Sheltered: intPtr(15), Missing: intPtr(1)},
		},
		{
			name: "no match",
			text: "Chuva continua na região",
			want: models.PartialMetrics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMetrics([]models.NewsItem{item("a", tt.text, "", "")})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractMetrics_ScansSummary(t *testing.T) {
	p := ExtractMetrics([]models.NewsItem{
		item("a", "Atualização da Defesa Civil", "", "O número chegou a 52 mortes"),
	})
	require.NotNil(t, p.Deaths)
	assert.Equal(t, 52, *p.Deaths)
	assert.Nil(t, p.Missing)
}

func TestExtractMetrics_MergeOverFallback(t *testing.T) {
	fallback := models.MetricSnapshot{Deaths: 46, Missing: 21, Sheltered: 3400, Displaced: 400}

	p := ExtractMetrics([]models.NewsItem{item("a", "Confirmadas 50 mortes", "", "")})
	m := p.MergeOver(fallback, fallback.UpdatedAt)

	assert.Equal(t, 50, m.Deaths)
	assert.Equal(t, 21, m.Missing, "unmatched metric falls back")
	assert.Equal(t, 3400, m.Sheltered)
	assert.Equal(t, 400, m.Displaced)
}

func TestExtractLocations_CountsMentions(t *testing.T) {
	items := []models.NewsItem{
		item("a", "Deslizamento no Três Moinhos", "", ""),
		item("b", "Chuva forte em Santa Luzia", "", ""),
		item("c", "Moradores do TRÊS MOINHOS deixam casas", "", ""),
	}

	locations := ExtractLocations(items, []string{"Três Moinhos", "Santa Luzia", "Parque Burnier"})

	require.Len(t, locations, 2)
	tm := locations["Três Moinhos"]
	assert.Equal(t, "Três Moinhos", tm.Name)
	assert.Equal(t, 2, tm.MentionCount)
	assert.Equal(t, "Moradores do TRÊS MOINHOS deixam casas", tm.LastHeadline)

	assert.Equal(t, 1, locations["Santa Luzia"].MentionCount)
	assert.NotContains(t, locations, "Parque Burnier")
}

func TestExtractLocations_CountsOncePerItem(t *testing.T) {
	items := []models.NewsItem{
		item("a", "Paineiras em alerta", "", "Defesa Civil monitora Paineiras"),
	}

	locations := ExtractLocations(items, []string{"Paineiras"})
	assert.Equal(t, 1, locations["Paineiras"].MentionCount)
}

func TestExtractLocations_Empty(t *testing.T) {
	assert.Empty(t, ExtractLocations(nil, []string{"Três Moinhos"}))
	assert.Empty(t, ExtractLocations([]models.NewsItem{item("a", "Três Moinhos", "", "")}, nil))
}

func intPtr(n int) *int { return &n }
