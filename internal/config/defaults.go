package config

import (
	"time"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
)

const (
	DefaultTTL          = 300 * time.Second
	DefaultFetchTimeout = 5 * time.Second
	DefaultTopN         = 15
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var (
	webKeywords  = []string{"ench", "chuv", "desliz", "alag", "temporal", "juiz de fora"}
	feedKeywords = []string{"juiz de fora", "jf", "enchente", "chuva", "deslizamento"}
)

func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Port = "8080"
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 10 * time.Second
	cfg.Server.LogLevel = "info"

	cfg.Cache.TTL = DefaultTTL

	cfg.Fetch.Timeout = DefaultFetchTimeout
	cfg.Fetch.UserAgent = DefaultUserAgent

	cfg.CircuitBreaker.Threshold = 3
	cfg.CircuitBreaker.Timeout = 30 * time.Second

	cfg.Scheduler.WarmSchedule = "@every 5m"

	cfg.Weather.URL = "https://api.open-meteo.com/v1"
	cfg.Weather.Coordinates = models.Coordinates{Latitude: -21.76, Longitude: -43.35}
	cfg.Weather.Timezone = "America/Sao_Paulo"
	cfg.Weather.ForecastDays = 3

	cfg.Sources = []SourceConfig{
		{
			Name:     "Defesa Civil MG",
			Kind:     SourceWeb,
			Endpoint: "https://www.defesacivil.mg.gov.br/",
			Keywords: webKeywords,
			Selector: "a[href]",
			Limit:    15,
		},
		{
			Name:     "Defesa Civil JF",
			Kind:     SourceWeb,
			Endpoint: "https://www.pjf.mg.gov.br/defesa_civil/noticias.php",
			Keywords: webKeywords,
			Selector: "a[href]",
			Limit:    15,
		},
		{
			Name:     "G1 Zona da Mata",
			Kind:     SourceFeed,
			Endpoint: "https://g1.globo.com/rss/g1/mg/zona-da-mata/",
			Keywords: feedKeywords,
			Limit:    5,
		},
		{
			Name:     "Estado de Minas",
			Kind:     SourceFeed,
			Endpoint: "https://www.em.com.br/rss/gerais.xml",
			Keywords: feedKeywords,
			Limit:    5,
		},
		{
			Name:     "NewsAPI",
			Kind:     SourceAPI,
			Endpoint: "https://newsapi.org/v2/everything",
			Query:    "Juiz de Fora enchente OR deslizamento OR chuva",
			Language: "pt",
			Limit:    5,
		},
	}

	cfg.Gazetteer = []models.Area{
		{Name: "Três Moinhos", Kind: models.AreaLandslide, Severity: models.SeverityHigh, Status: "Bloqueado", Victims: intPtr(5)},
		{Name: "Cidade Universitária", Kind: models.AreaFlooding, Severity: models.SeverityHigh, Status: "Interditado", RainfallMM: floatPtr(221.72)},
		{Name: "Nossa Senhora de Lourdes", Kind: models.AreaFlooding, Severity: models.SeverityHigh, Status: "Interditado", RainfallMM: floatPtr(216.19)},
		{Name: "Centro", Kind: models.AreaFlooding, Severity: models.SeverityMedium, Status: "Parcial", RainfallMM: floatPtr(215.43)},
		{Name: "Santa Cruz", Kind: models.AreaLandslide, Severity: models.SeverityHigh, Status: "Bloqueado", Victims: intPtr(3)},
		{Name: "Benfica", Kind: models.AreaInundation, Severity: models.SeverityMedium, Status: "Restrito"},
		{Name: "São Pedro", Kind: models.AreaLandslide, Severity: models.SeverityHigh, Status: "Bloqueado", Victims: intPtr(2)},
		{Name: "Mariano Procópio", Kind: models.AreaFlooding, Severity: models.SeverityMedium, Status: "Parcial"},
		{Name: "São Mateus", Kind: models.AreaInundation, Severity: models.SeverityHigh, Status: "Interditado"},
		{Name: "Granjas Betânia", Kind: models.AreaLandslide, Severity: models.SeverityCritical, Status: "Bloqueado", Victims: intPtr(8)},
	}

	// Historical figures from the 25/02/2026 16:00 bulletin.
	cfg.Fallback = models.MetricSnapshot{
		Deaths:          46,
		Missing:         21,
		Sheltered:       3400,
		Displaced:       400,
		RainfallMonthMM: 589.6,
		Rainfall48hMM:   227.6,
		Occurrences:     1017,
		UpdatedAt:       time.Date(2026, time.February, 25, 16, 0, 0, 0, time.FixedZone("BRT", -3*60*60)),
	}

	cfg.SeedNews = []models.NewsItem{
		{
			Source:    "Defesa Civil MG",
			Timestamp: "25/02 16:00",
			Title:     "Balanço atualizado: 46 óbitos confirmados em Juiz de Fora",
			Summary:   "Equipes continuam buscas por 21 desaparecidos. Mais de 3.400 pessoas estão desabrigadas.",
			Kind:      models.KindBulletin,
			URL:       models.StringPtr("https://www.defesacivil.mg.gov.br/noticias"),
		},
		{
			Source:    "G1 Zona da Mata",
			Timestamp: "25/02 14:30",
			Title:     "Temporal em Juiz de Fora e Ubá deixa rastro de destruição",
			Summary:   "Chuva volumosa atingiu a região entre os dias 22 e 24 de fevereiro.",
			Kind:      models.KindReport,
			URL:       models.StringPtr("https://g1.globo.com/mg/zona-da-mata/"),
		},
		{
			Source:    "CNN Brasil",
			Timestamp: "25/02 12:00",
			Title:     "Vídeo: Morro desliza sobre casas no bairro Três Moinhos",
			Summary:   "Imagens mostram momento exato do deslizamento que matou 5 pessoas.",
			Kind:      models.KindVideo,
			URL:       models.StringPtr("https://www.cnnbrasil.com.br"),
		},
		{
			Source:    "Prefeitura JF",
			Timestamp: "24/02 18:00",
			Title:     "Fevereiro de 2026 é o mês mais chuvoso da história de Juiz de Fora",
			Summary:   "Já são 589,6mm de chuva acumulada, superando em 270% a média histórica.",
			Kind:      models.KindAnnouncement,
			URL:       models.StringPtr("https://www.pjf.mg.gov.br"),
		},
	}

	cfg.TopN = DefaultTopN

	return cfg
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
