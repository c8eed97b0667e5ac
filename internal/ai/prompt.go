package ai

import (
	"encoding/json"
	"fmt"
	"os"
)

const classifyPrompt = `You are an HTML interaction analyzer. You will receive HTML elements and must extract every possible interaction with them, following these rules:
1. Only analyze the HTML elements provided. Do not make up elements and do not hallucinate.
2. Return each interaction in this format: ["Element identifier (id, name, aria-label, href...)", "Element type", "Element text (null if none)", "Action type"]
3. Element type must be one of: "button", "input", "link", "select".
4. Action type must be one of: "click", "fill", "check", "select", "navigate".
5. Use lowercase for element types and action types.
6. Return a single flat JSON array containing all interactions, e.g. [["login-btn", "button", "Log In", "click"], ["email", "input", null, "fill"]]
7. Do not return any other text: no introduction, no explanation, no markdown, no code fences, no bullet points.`

const locatePrompt = `You are a specialist in analyzing HTML elements and finding out their purpose. You will receive a list of HTML elements and their possible interactions, followed by a target action. Your job is to find the element that best suits the given action.
1. Only consider the elements provided.
2. Return exactly one result in the following representation: {"id": "element-id", "text": "element inner text"}
3. Do not make up elements.
4. Do not return any kind of introduction or explanatory text, just return the requested representation.
5. Do not hallucinate.`

const scriptPrompt = `You are a Playwright script generator. You will receive formatted input representing HTML elements and possible interactions with them, as well as an end goal.
1. The interactions are elements of an array and follow this format: ["Element identifier (id, aria-label, etc...)", "Element type", "Element text (null if none)", "Action type"]
2. You must generate a Playwright script that achieves the end goal. For example, if the end goal is to fill out a user's password, generate a script that fills the password input identified in the input array.
3. You will receive the input in this format: "[Interactions],Action to perform"
4. Do not deviate from the provided elements, you cannot make anything up. Do not, in any circumstance, hallucinate.
5. Do not write comments in the generated script, nor any other text besides the code. Your output must be clean and concise.
6. Use the element identifier to find the element in your script so you can interact with it.
7. Make your script as simple as possible without compromising the goal.`

const missingPrompt = `You are an automation assistant that compares two versions of the interactive elements of a web page and reports the elements that disappeared.
1. You will receive the previous elements prefixed with "BEFORE:" followed by the current elements prefixed with "AFTER:". Each element is one line of HTML.
2. Select every element that was present BEFORE but is not present AFTER. An element whose tag, id, name or text changed counts as missing.
3. Only use the provided elements. Do not generate or infer new elements and do not hallucinate.
4. Represent each element as a JSON object: {"type": "button|input|link|select", "cssSelector": "selector for the BEFORE element", "text": "element text or null"}
5. Return only a JSON array of these objects, e.g. [{"type": "button", "cssSelector": "#show-text", "text": "Click Me"}]. Return [] when nothing is missing.
6. Do not return any other text: no introduction, no explanation, no markdown, no code fences.`

const alternativePrompt = `You are an automation assistant that selects the best replacement when a script can no longer find its target element.
1. You will receive a JSON object: {"modifiedElement": "the element that disappeared", "newElements": "the HTML elements currently on the page, one per line"}
2. Select exactly one element from newElements that best substitutes the modified element, based on semantic similarity and practical use in a typical web interaction.
3. Only use the provided elements. Do not generate or infer new elements and do not hallucinate.
4. Return the selected element as a JSON object: {"type": "button|input|link|select", "cssSelector": "selector for the new element", "text": "element text or null"}
5. Do not return any other text: no introduction, no explanation, no markdown, no code fences.`

// Prompts are the fixed system instructions for each model task
type Prompts struct {
	Classify    string
	Locate      string
	Script      string
	Missing     string
	Alternative string
}

// DefaultPrompts returns the built-in instructions
func DefaultPrompts() Prompts {
	return Prompts{
		Classify:    classifyPrompt,
		Locate:      locatePrompt,
		Script:      scriptPrompt,
		Missing:     missingPrompt,
		Alternative: alternativePrompt,
	}
}

// PromptFiles holds optional file paths overriding the built-in prompts
type PromptFiles struct {
	Classify    string
	Locate      string
	Script      string
	Missing     string
	Alternative string
}

// LoadPrompts starts from the defaults and replaces every prompt whose file path is set
func LoadPrompts(files PromptFiles) (Prompts, error) {
	p := DefaultPrompts()
	overrides := []struct {
		path string
		dst  *string
	}{
		{files.Classify, &p.Classify},
		{files.Locate, &p.Locate},
		{files.Script, &p.Script},
		{files.Missing, &p.Missing},
		{files.Alternative, &p.Alternative},
	}
	for _, o := range overrides {
		if o.path == "" {
			continue
		}
		data, err := os.ReadFile(o.path)
		if err != nil {
			return Prompts{}, fmt.Errorf("read prompt %s: %w", o.path, err)
		}
		*o.dst = string(data)
	}
	return p, nil
}

func buildClassifyInput(chunk string) string {
	return "HTML Input:\n" + chunk
}

func buildLocateInput(elements, goal string) string {
	return "Elements:\n" + elements + "\n\nTarget action: " + goal
}

func buildScriptInput(interactions, goal string) string {
	return interactions + "," + goal
}

func buildMissingInput(before, after string) string {
	return "BEFORE:\n" + before + "\nAFTER:\n" + after
}

type alternativeRequest struct {
	ModifiedElement string `json:"modifiedElement"`
	NewElements     string `json:"newElements"`
}

func buildAlternativeInput(element, candidates string) (string, error) {
	data, err := json.Marshal(alternativeRequest{ModifiedElement: element, NewElements: candidates})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
