package synth

// Sample sentences used to audition a voice without consuming the script.
var previewSentences = map[string]string{
	"en-US": "Hello! This is a preview of the selected voice.",
	"en-GB": "Hello! This is a preview of the selected voice.",
	"de-DE": "Hallo! Dies ist eine Vorschau der gewählten Stimme.",
	"fr-FR": "Bonjour ! Voici un aperçu de la voix sélectionnée.",
	"es-ES": "¡Hola! Esta es una muestra de la voz seleccionada.",
	"it-IT": "Ciao! Questa è un'anteprima della voce selezionata.",
	"ja-JP": "こんにちは。選択した音声のプレビューです。",
	"pt-BR": "Olá! Esta é uma prévia da voz selecionada.",
}

// PreviewSentence returns the fixed sample sentence for a language,
// falling back to English for unknown codes.
func PreviewSentence(langCode string) string {
	if s, ok := previewSentences[langCode]; ok {
		return s
	}
	return previewSentences["en-US"]
}
