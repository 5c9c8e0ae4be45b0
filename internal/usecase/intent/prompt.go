package intent

// PromptEntryName is the runtime config entry holding the system prompt
// template. Editing it through the config API changes extraction
// behavior without a redeploy.
const PromptEntryName = "intent_system_prompt"

// defaultSystemPrompt is used when no runtime entry is configured. The
// model must answer with a single JSON object; unknown or unmentioned
// constraints are simply omitted.
const defaultSystemPrompt = `You extract food search filters from a diner's free-text request.

Respond with a single JSON object. Include only the constraints the text actually expresses; omit everything else. Fields:

{
  "foodName": "substring of a dish name",
  "itemType": "dish category such as burger, salad, dessert",
  "allergies": {"milk": bool, "egg": bool, "wheat": bool, "soy": bool, "fish": bool, "peanuts": bool, "treeNuts": bool},
  "dietaryPreferences": {"glutenFree": bool, "nutFree": bool, "sesame": bool, "vegan": bool, "vegetarian": bool, "halal": bool, "kosher": bool, "mediterranean": bool, "carnivore": bool, "keto": bool, "lowCarb": bool, "paleo": bool},
  "healthRating": {"min": number, "max": number},
  "tasteRating": {"min": number, "max": number},
  "calories": {"min": number, "max": number}
}

An allergy value of false means the dish must NOT contain that allergen. Ratings are on a 1 to 5 scale. "healthy" means healthRating min 4. "low calorie" means calories max 500. Never invent constraints the text does not state.`
