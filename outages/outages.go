// Package outages holds the Storm Kristin outage reference table.
//
// The table is immutable after startup: a map keyed by lower-cased district
// name plus a postal-code-prefix index. Lookups never return partial data;
// callers either get a full district record or nil.
package outages

import (
	"math"
	"strings"
	"unicode"
)

// StormDate is the day Storm Kristin made landfall.
const StormDate = "2026-01-28"

// District is one row of the outage reference table. Field names follow the
// open-data vocabulary used by the frontend, hence the Portuguese JSON keys.
type District struct {
	Distrito                    string   `json:"distrito"`
	ClientesAfetados            int      `json:"clientes_afetados"`
	ClientesSemLuz              int      `json:"clientes_sem_luz"`
	EquipasNoTerreno            int      `json:"equipas_no_terreno"`
	GeradoresInstalados         int      `json:"geradores_instalados"`
	PostosTransformacaoAfetados int      `json:"postos_transformacao_afetados"`
	LinhasMediaTensaoAfetadas   int      `json:"linhas_media_tensao_afetadas"`
	DataEstimadaReposicao       string   `json:"data_estimada_reposicao"`
	PercentagemReposta          int      `json:"percentagem_reposta"`
	ConcelhosMaisAfetados       []string `json:"concelhos_mais_afetados"`
	Estado                      string   `json:"estado"`
}

// Summary aggregates storm impact across all districts.
type Summary struct {
	Evento                           string   `json:"evento"`
	DataEvento                       string   `json:"data_evento"`
	DistritosAfetados                []string `json:"distritos_afetados"`
	TotalClientesAfetados            int      `json:"total_clientes_afetados"`
	TotalClientesSemLuz              int      `json:"total_clientes_sem_luz"`
	PercentagemGlobalReposta         float64  `json:"percentagem_global_reposta"`
	TotalEquipasNoTerreno            int      `json:"total_equipas_no_terreno"`
	TotalGeradoresInstalados         int      `json:"total_geradores_instalados"`
	TotalPostosTransformacaoAfetados int      `json:"total_postos_transformacao_afetados"`
	EstadoGeral                      string   `json:"estado_geral"`
}

// districtOrder keeps summary output stable (map iteration is randomized).
var districtOrder = []string{
	"leiria", "coimbra", "castelo branco", "portalegre", "santarem", "viseu", "guarda",
}

var table = map[string]*District{
	"leiria": {
		Distrito:                    "Leiria",
		ClientesAfetados:            45200,
		ClientesSemLuz:              8300,
		EquipasNoTerreno:            42,
		GeradoresInstalados:         18,
		PostosTransformacaoAfetados: 156,
		LinhasMediaTensaoAfetadas:   23,
		DataEstimadaReposicao:       "2026-02-05",
		PercentagemReposta:          82,
		ConcelhosMaisAfetados:       []string{"Marinha Grande", "Leiria", "Pombal", "Figueira da Foz"},
		Estado:                      "Em recuperação",
	},
	"coimbra": {
		Distrito:                    "Coimbra",
		ClientesAfetados:            32100,
		ClientesSemLuz:              4500,
		EquipasNoTerreno:            35,
		GeradoresInstalados:         12,
		PostosTransformacaoAfetados: 98,
		LinhasMediaTensaoAfetadas:   15,
		DataEstimadaReposicao:       "2026-02-04",
		PercentagemReposta:          86,
		ConcelhosMaisAfetados:       []string{"Coimbra", "Figueira da Foz", "Cantanhede", "Montemor-o-Velho"},
		Estado:                      "Em recuperação",
	},
	"castelo branco": {
		Distrito:                    "Castelo Branco",
		ClientesAfetados:            18500,
		ClientesSemLuz:              6200,
		EquipasNoTerreno:            28,
		GeradoresInstalados:         10,
		PostosTransformacaoAfetados: 72,
		LinhasMediaTensaoAfetadas:   18,
		DataEstimadaReposicao:       "2026-02-06",
		PercentagemReposta:          67,
		ConcelhosMaisAfetados:       []string{"Castelo Branco", "Covilhã", "Fundão", "Sertã"},
		Estado:                      "Em recuperação",
	},
	"portalegre": {
		Distrito:                    "Portalegre",
		ClientesAfetados:            12800,
		ClientesSemLuz:              3100,
		EquipasNoTerreno:            18,
		GeradoresInstalados:         7,
		PostosTransformacaoAfetados: 45,
		LinhasMediaTensaoAfetadas:   9,
		DataEstimadaReposicao:       "2026-02-04",
		PercentagemReposta:          76,
		ConcelhosMaisAfetados:       []string{"Portalegre", "Elvas", "Ponte de Sor"},
		Estado:                      "Em recuperação",
	},
	"santarem": {
		Distrito:                    "Santarém",
		ClientesAfetados:            28700,
		ClientesSemLuz:              5400,
		EquipasNoTerreno:            32,
		GeradoresInstalados:         14,
		PostosTransformacaoAfetados: 110,
		LinhasMediaTensaoAfetadas:   20,
		DataEstimadaReposicao:       "2026-02-05",
		PercentagemReposta:          81,
		ConcelhosMaisAfetados:       []string{"Santarém", "Tomar", "Abrantes", "Torres Novas"},
		Estado:                      "Em recuperação",
	},
	"viseu": {
		Distrito:                    "Viseu",
		ClientesAfetados:            22400,
		ClientesSemLuz:              7800,
		EquipasNoTerreno:            30,
		GeradoresInstalados:         11,
		PostosTransformacaoAfetados: 88,
		LinhasMediaTensaoAfetadas:   16,
		DataEstimadaReposicao:       "2026-02-06",
		PercentagemReposta:          65,
		ConcelhosMaisAfetados:       []string{"Viseu", "Lamego", "Mangualde", "Tondela"},
		Estado:                      "Em recuperação",
	},
	"guarda": {
		Distrito:                    "Guarda",
		ClientesAfetados:            15300,
		ClientesSemLuz:              5900,
		EquipasNoTerreno:            22,
		GeradoresInstalados:         9,
		PostosTransformacaoAfetados: 65,
		LinhasMediaTensaoAfetadas:   14,
		DataEstimadaReposicao:       "2026-02-07",
		PercentagemReposta:          61,
		ConcelhosMaisAfetados:       []string{"Guarda", "Seia", "Gouveia", "Celorico da Beira"},
		Estado:                      "Em recuperação",
	},
}

// postalPrefixes maps four-digit postal code prefixes to district keys.
var postalPrefixes = map[string]string{
	"2400": "leiria", "2401": "leiria", "2410": "leiria", "2415": "leiria",
	"2420": "leiria", "2425": "leiria", "2430": "leiria", "2440": "leiria",
	"2445": "leiria", "2450": "leiria", "2460": "leiria",
	"3000": "coimbra", "3001": "coimbra", "3004": "coimbra", "3020": "coimbra",
	"3030": "coimbra", "3040": "coimbra", "3050": "coimbra", "3060": "coimbra",
	"3080": "coimbra", "3100": "coimbra", "3150": "coimbra",
	"6000": "castelo branco", "6001": "castelo branco", "6005": "castelo branco",
	"6200": "castelo branco", "6215": "castelo branco", "6230": "castelo branco",
	"6300": "castelo branco",
	"7300": "portalegre", "7301": "portalegre", "7350": "portalegre", "7400": "portalegre",
	"2000": "santarem", "2001": "santarem", "2005": "santarem", "2040": "santarem",
	"2050": "santarem", "2100": "santarem", "2200": "santarem", "2300": "santarem",
	"2305": "santarem", "2350": "santarem",
	"3500": "viseu", "3501": "viseu", "3504": "viseu", "3510": "viseu",
	"3515": "viseu", "3520": "viseu", "5100": "viseu",
	"6290": "guarda", "6260": "guarda", "6270": "guarda", "6320": "guarda", "6360": "guarda",
}

// DistrictFromPostal maps a postal code to a district key, using the part
// before the hyphen as the prefix. Returns "" when the prefix is unknown.
func DistrictFromPostal(postalCode string) string {
	prefix, _, _ := strings.Cut(strings.TrimSpace(postalCode), "-")
	return postalPrefixes[prefix]
}

// ByDistrict looks up outage data by district name (case-insensitive).
func ByDistrict(name string) *District {
	return table[strings.ToLower(strings.TrimSpace(name))]
}

// ByLocation resolves a free-text location to a district record.
//
// Priority order: postal code prefix (when the string contains a digit),
// exact district name, then exact match against each district's
// most-affected municipalities. Returns nil when nothing matches.
func ByLocation(location string) *District {
	if strings.ContainsFunc(location, unicode.IsDigit) {
		if key := DistrictFromPostal(location); key != "" {
			return table[key]
		}
	}

	key := strings.ToLower(strings.TrimSpace(location))
	if d, ok := table[key]; ok {
		return d
	}

	for _, districtKey := range districtOrder {
		d := table[districtKey]
		for _, concelho := range d.ConcelhosMaisAfetados {
			if key == strings.ToLower(concelho) {
				return d
			}
		}
	}

	return nil
}

// NationalSummary aggregates the storm impact across the full table.
// The global restoration percentage guards division by zero.
func NationalSummary() Summary {
	var afetados, semLuz, equipas, geradores, postos int
	distritos := make([]string, 0, len(districtOrder))

	for _, key := range districtOrder {
		d := table[key]
		afetados += d.ClientesAfetados
		semLuz += d.ClientesSemLuz
		equipas += d.EquipasNoTerreno
		geradores += d.GeradoresInstalados
		postos += d.PostosTransformacaoAfetados
		distritos = append(distritos, d.Distrito)
	}

	var percentagem float64
	if afetados > 0 {
		percentagem = math.Round((1-float64(semLuz)/float64(afetados))*1000) / 10
	}

	return Summary{
		Evento:                           "Tempestade Kristin",
		DataEvento:                       StormDate,
		DistritosAfetados:                distritos,
		TotalClientesAfetados:            afetados,
		TotalClientesSemLuz:              semLuz,
		PercentagemGlobalReposta:         percentagem,
		TotalEquipasNoTerreno:            equipas,
		TotalGeradoresInstalados:         geradores,
		TotalPostosTransformacaoAfetados: postos,
		EstadoGeral:                      "Operação de recuperação em curso",
	}
}

// Districts returns the reference records in stable order.
func Districts() []*District {
	result := make([]*District, 0, len(districtOrder))
	for _, key := range districtOrder {
		result = append(result, table[key])
	}
	return result
}
