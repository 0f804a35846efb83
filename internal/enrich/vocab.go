package enrich

// Domain vocabularies for keyword extraction. Matching is case-insensitive
// substring matching, so entries should be lowercase and specific enough not
// to fire on unrelated text.
//
// Multi-word entries must not be the concatenation of two other entries;
// ExtractDomainKeywords guarantees that re-extracting from its own output
// never invents new keywords, and that guarantee relies on this.

// NutrientVocabulary lists nutrients referenced in product copy.
var NutrientVocabulary = []string{
	"protein", "fiber", "iron", "calcium", "magnesium", "potassium",
	"zinc", "folate", "omega-3", "antioxidant", "curcumin", "probiotic",
	"vitamin a", "vitamin c", "vitamin d", "vitamin e",
}

// BenefitVocabulary lists health benefits referenced in product copy.
var BenefitVocabulary = []string{
	"immunity", "digestion", "energy", "anti-inflammatory", "detox",
	"heart health", "gut health", "bone strength", "weight management",
	"skin glow",
}

// ConditionVocabulary lists conditions the storefront's products are
// commonly searched against.
var ConditionVocabulary = []string{
	"diabetes", "cholesterol", "anemia", "arthritis", "hypertension",
	"insomnia", "indigestion", "acidity",
}

// PropertyVocabulary lists production and quality properties.
var PropertyVocabulary = []string{
	"organic", "cold-pressed", "unrefined", "gluten-free", "raw",
	"whole grain", "stone-ground", "sun-dried", "unpolished",
	"wild-harvested",
}

// CategoryExpansions maps a lowercase category name to 2-4 related domain
// phrases appended to the enriched text. Unknown categories expand to
// nothing.
var CategoryExpansions = map[string][]string{
	"spices":     {"cooking spices", "seasoning", "masala", "culinary herbs"},
	"rice":       {"grains", "staple food", "cereal"},
	"millets":    {"ancient grains", "whole grains", "gluten-free grains"},
	"oils":       {"cooking oil", "cold-pressed oil", "edible oil"},
	"honey":      {"natural sweetener", "raw honey", "bee products"},
	"tea":        {"herbal tea", "beverages", "infusion"},
	"flour":      {"atta", "baking", "ground grains"},
	"dry fruits": {"nuts", "dried fruits", "healthy snacks"},
	"pulses":     {"lentils", "legumes", "dal", "protein source"},
	"sweeteners": {"jaggery", "natural sweetener"},
}

// TagSynonyms maps a lowercase product tag to synonym phrases.
var TagSynonyms = map[string][]string{
	"organic":     {"natural", "pure", "bio", "ecological"},
	"healthy":     {"nutritious", "wholesome"},
	"traditional": {"ancient", "heritage", "time-tested"},
	"fresh":       {"farm-fresh", "natural"},
	"raw":         {"unprocessed", "unrefined"},
	"herbal":      {"ayurvedic", "botanical"},
	"premium":     {"high quality", "select grade"},
	"homemade":    {"artisanal", "small batch"},
	"sugar-free":  {"no added sugar", "unsweetened"},
	"vegan":       {"plant-based", "dairy-free"},
}

// KeywordSynonyms maps extracted domain keywords to expansion phrases
// appended once the keyword is seen anywhere in the composite text.
var KeywordSynonyms = map[string][]string{
	"organic":      {"chemical-free", "pesticide-free"},
	"curcumin":     {"turmeric extract"},
	"antioxidant":  {"free radical protection"},
	"fiber":        {"roughage", "digestive aid"},
	"protein":      {"amino acids"},
	"immunity":     {"immune support", "disease resistance"},
	"digestion":    {"digestive wellness"},
	"cold-pressed": {"kachi ghani"},
	"gluten-free":  {"celiac friendly"},
	"raw":          {"unheated", "unpasteurized"},
}

// foodQualifiers maps a lowercase category to the qualifier appended to the
// enriched title when the title itself does not name the food form.
var foodQualifiers = map[string]string{
	"spices":     "cooking spice",
	"rice":       "food grain",
	"millets":    "food grain",
	"oils":       "edible oil",
	"honey":      "natural sweetener",
	"flour":      "baking flour",
	"pulses":     "food legume",
	"dry fruits": "edible nut",
}

// vocabularies is the fixed scan order for ExtractDomainKeywords.
var vocabularies = [][]string{
	NutrientVocabulary,
	BenefitVocabulary,
	ConditionVocabulary,
	PropertyVocabulary,
}
