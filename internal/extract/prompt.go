// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"text/template"
)

// systemPrompt frames the task for providers that take a separate system
// message.
const systemPrompt = "You are a medicine information extraction system. " +
	"You convert informal, possibly mixed-language medicine descriptions " +
	"into structured JSON and reply with JSON only."

// extractPromptTmpl is the prompt sent to the model for one text. The
// input is colloquial and frequently non-Latin script; the model must
// normalize dates and quantities but never invent missing precision.
var extractPromptTmpl = template.Must(template.New("extract").Parse(`Extract structured data from the following medicine description.

Text: "{{.Text}}"

Return a JSON object with these fields:
- drug_name: the medicine's common name (required)
- brand_name: the brand or trade name, if mentioned
- generic_name: the academic or chemical name, inferred from the drug name if known (e.g. 阿莫西林 -> Amoxicillin)
- quantity: the count as a plain number ("一盒" -> 1, "30片" -> 30)
- unit: the counting unit, e.g. "盒", "片", "袋"
- specification: the dosage strength, e.g. "0.5g", "500mg"
- package_count: the number of packages as an integer, if stated
- expiry_date: normalized to "YYYY-MM-DD" when the day is stated, "YYYY-MM" when only year and month are ("2027年6月" -> "2027-06"). Never invent a day.

Rules:
- Set a field to "" (or 0 for numbers) when the text does not mention it.
- The description may mix languages and use abbreviations or colloquial date expressions.
- Reply with the JSON object only, no surrounding text.

Example reply:
{"drug_name": "阿莫西林", "brand_name": "", "generic_name": "Amoxicillin", "quantity": 1, "unit": "盒", "specification": "", "package_count": 1, "expiry_date": "2027-06"}
`))

// batchPromptTmpl asks for one JSON array element per input text, in input
// order. Anything else is treated as a failed call.
var batchPromptTmpl = template.Must(template.New("batch").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`Extract structured data from each of the following medicine descriptions.

Texts:
{{range $i, $t := .Texts}}{{inc $i}}. "{{$t}}"
{{end}}
For every text return one JSON object with the fields drug_name (required), brand_name, generic_name, quantity, unit, specification, package_count, and expiry_date, following these rules:
- Set a field to "" (or 0 for numbers) when the text does not mention it.
- Normalize expiry dates to "YYYY-MM-DD" or "YYYY-MM"; never invent a day.
- quantity is a plain number; package_count is an integer.

Reply with a JSON array only. The array must have exactly {{len .Texts}} elements, in the same order as the input texts.
`))

// renderExtractPrompt fills the single-text prompt.
func renderExtractPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := extractPromptTmpl.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// renderBatchPrompt fills the batch prompt.
func renderBatchPrompt(texts []string) (string, error) {
	var buf bytes.Buffer
	if err := batchPromptTmpl.Execute(&buf, struct{ Texts []string }{Texts: texts}); err != nil {
		return "", fmt.Errorf("rendering batch prompt: %w", err)
	}
	return buf.String(), nil
}
