package structure

import "strings"

// buildPrompt composes the restructuring instruction. Hindi and mixed
// content get bilingual phrasing so the model keeps Devanagari intact.
func buildPrompt(text, langHint string) string {
	var langInstruction string
	switch normalizeHint(langHint) {
	case "hi":
		langInstruction = "यह टेक्स्ट मुख्यतः हिंदी में है। सभी हिंदी वर्णों और विराम चिह्नों को सुरक्षित रखें, " +
			"और देवनागरी लिपि का स्वरूपण बनाए रखें।"
	case "en":
		langInstruction = "The text is primarily in English. Maintain proper English grammar and formatting."
	default:
		langInstruction = "यह टेक्स्ट हिंदी और अंग्रेजी दोनों भाषाओं में है। दोनों भाषाओं के सभी वर्णों को सुरक्षित रखें। " +
			"This text contains both Hindi and English. Preserve all characters from both languages."
	}

	var b strings.Builder
	b.WriteString("I have extracted text from a document. Help structure and format it.\n\n")
	b.WriteString(langInstruction)
	b.WriteString("\n\nOriginal extracted text:\n\n")
	b.WriteString(text)
	b.WriteString("\n\nStructure this text following these guidelines:\n")
	b.WriteString("1. Create clear headings for different sections.\n")
	b.WriteString("2. Convert appropriate content to bullet or numbered lists.\n")
	b.WriteString("3. Maintain proper paragraph breaks and flow.\n")
	b.WriteString("4. Fix obvious punctuation and spacing errors.\n")
	b.WriteString("5. DO NOT add new information or remove existing content.\n")
	b.WriteString("6. Keep all original text in its original language and script.\n")
	b.WriteString("7. Organize existing content; never summarize.\n")
	b.WriteString("\nReturn only the structured text without any additional commentary.")
	return b.String()
}

func normalizeHint(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	switch {
	case h == "hi" || strings.Contains(h, "hindi"):
		return "hi"
	case h == "en" || strings.Contains(h, "english"):
		return "en"
	default:
		return "mixed"
	}
}
