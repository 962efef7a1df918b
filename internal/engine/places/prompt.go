package places

// LLM prompt templates. Data only, no logic.

// classifyPrompt asks for the video intent and the places it mentions.
// Args: title, text kind ("Transcript" or "Description"), text.
const classifyPrompt = `You analyse travel content shared from social media (YouTube, Instagram, Reddit, TikTok).
Decide what the content is and extract every real-world place it recommends or mentions.

Respond with valid JSON only (no markdown, no ` + "`" + `json` + "`" + ` block):
{
  "classification": "places",
  "summary": "1-2 sentence plain-text summary of the content.",
  "places": [
    {
      "name": "Exact name of the place, e.g. Ichiran Ramen Shibuya",
      "category": "food",
      "description": "One sentence on why it is mentioned.",
      "location": "City or area that disambiguates the place, e.g. Shibuya, Tokyo, Japan"
    }
  ]
}

Rules:
- classification: "places" when the content recommends or visits specific locations,
  "howto" when it teaches a skill or process (packing, booking, editing). For "howto" return "places": [].
- category: exactly one of food, accommodation, place, shopping, activity, tip
- name: a proper name that a maps search can find; skip generic mentions ("a cafe", "the beach")
- location: the most specific city/area/country stated or clearly implied; empty string if unknown
- Do NOT invent places that are not mentioned
- Keep the original spelling of names; write summary and descriptions in English

Title: %s

%s:
%s`
