package util

var ietfToIso = map[string]string{
	"en": "en_US",
	"ru": "ru_RU",
	"uk": "uk_UA",
	"de": "de_DE",
	"es": "es_ES",
	"pt": "pt_PT",
}

func IetfToIsoLangCode(lang string) string {
	if iso, ok := ietfToIso[lang]; ok {
		return iso
	}
	return "en_US"
}
