// Package university holds the fixed catalog of accepted university codes.
// The catalog is loaded once as package data and never mutated.
package university

import "sort"

var catalog = map[string]string{
	"ÁTE":    "Állatorvostudományi Egyetem",
	"ANNYE":  "Andrássy Gyula Budapesti Német Nyelvű Egyetem",
	"BCE":    "Budapesti Corvinus Egyetem",
	"BGE":    "Budapesti Gazdasági Egyetem",
	"METU":   "Budapesti Metropolitan Egyetem",
	"BME":    "Budapesti Műszaki és Gazdaságtudományi Egyetem",
	"DE":     "Debreceni Egyetem",
	"DRHE":   "Debreceni Református Hittudományi Egyetem",
	"DUE":    "Dunaújvárosi Egyetem",
	"EDUTUS": "Edutus Egyetem",
	"ELTE":   "Eötvös Loránd Tudományegyetem",
	"EKKE":   "Eszterházy Károly Katolikus Egyetem",
	"EHE":    "Evangélikus Hittudományi Egyetem",
	"GFE":    "Gál Ferenc Egyetem",
	"KRE":    "Károli Gáspár Református Egyetem",
	"KJE":    "Kodolányi János Egyetem",
	"KEE":    "Közép-európai Egyetem",
	"LFZE":   "Liszt Ferenc Zeneművészeti Egyetem",
	"MATE":   "Magyar Agrár- és Élettudományi Egyetem",
	"MKE":    "Magyar Képzőművészeti Egyetem",
	"MTE":    "Magyar Táncművészeti Egyetem",
	"MILTON": "Milton Friedman Egyetem",
	"ME":     "Miskolci Egyetem",
	"MOME":   "Moholy-Nagy Művészeti Egyetem",
	"NKE":    "Nemzeti Közszolgálati Egyetem",
	"NJE":    "Neumann János Egyetem",
	"NYE":    "Nyíregyházi Egyetem",
	"OE":     "Óbudai Egyetem",
	"OR-ZSE": "Országos Rabbiképző – Zsidó Egyetem",
	"PE":     "Pannon Egyetem",
	"PPKE":   "Pázmány Péter Katolikus Egyetem",
	"PTE":    "Pécsi Tudományegyetem",
	"SE":     "Semmelweis Egyetem",
	"SOE":    "Soproni Egyetem",
	"SZE":    "Széchenyi István Egyetem",
	"SZTE":   "Szegedi Tudományegyetem",
	"SZFE":   "Színház- és Filmművészeti Egyetem",
	"THE":    "Tokaj-Hegyalja Egyetem",
}

// Valid reports whether code is a known university code.
func Valid(code string) bool {
	_, ok := catalog[code]
	return ok
}

// Name returns the full university name for a code, or "" when unknown.
func Name(code string) string {
	return catalog[code]
}

// Codes returns all catalog codes in lexicographic order.
func Codes() []string {
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
