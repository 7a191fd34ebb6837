package models

// Neighborhoods is the fixed list of areas served by the registry.
var Neighborhoods = []string{
	"Argentina Siqueira", "Belém", "Berilândia", "Centro", "Cohab",
	"Conjunto Esperança", "Damião Carneiro", "Depósito",
	"Distrito Industrial", "Duque De Caxias",
	"Edmilson Correia De Vasconcelos", "Encantado", "Jaime Lopes",
	"José Aurélio Câmara", "Lacerda", "Manituba", "Maravilha",
	"Monteiro De Morais", "Nenelândia", "Passagem", "Paus Branco",
	"Salviano Carlos", "São Miguel", "Sede Rural", "Uruquê",
	"Vila Betânia", "Vila São Paulo",
}

// MaritalStatuses is the closed set of accepted marital states.
var MaritalStatuses = []string{
	"SOLTEIRO", "CASADO", "UNIÃO ESTÁVEL", "DIVORCIADO", "VIÚVO", "OUTRO",
}

// DefaultNationalities seed the nationality dropdown; distinct values already
// present in the sheet are merged in by the service.
var DefaultNationalities = []string{"BRASILEIRA", "BRASILEIRO", "OUTRA"}
