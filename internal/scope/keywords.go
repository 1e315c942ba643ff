package scope

// Keyword tables live here as data, separate from the matching logic, so
// they can be tested and localized on their own.

// emotionalKeywords mark a message as in scope for the support companion.
// Substring match over the lowercased message.
var emotionalKeywords = []string{
	"feel", "feeling", "felt",
	"stress", "stressed", "anxious", "anxiety", "panic",
	"sad", "unhappy", "depress", "lonely", "alone", "isolated",
	"angry", "frustrated", "upset", "hurt", "heartbroken", "betrayed",
	"grief", "grieving", "loss", "mourning", "miss him", "miss her",
	"worried", "worry", "scared", "afraid", "fear",
	"overwhelmed", "exhausted", "burnt out", "burned out", "tired of",
	"hopeless", "helpless", "worthless", "empty", "numb",
	"cry", "crying", "tears",
	"can't sleep", "cant sleep", "no one understands",
}

type outOfScopeCategory struct {
	Name     string
	Keywords []string
}

// outOfScopeCategories list the request types the companion deliberately
// refuses to answer. Order matters: the first matching category names the
// block.
var outOfScopeCategories = []outOfScopeCategory{
	{
		Name: "technical support",
		Keywords: []string{
			"fix my computer", "wifi not working", "wi-fi not working", "router",
			"printer", "install windows", "blue screen", "software update",
			"reset my phone", "laptop is slow", "format my",
		},
	},
	{
		Name: "billing or account issues",
		Keywords: []string{
			"refund", "invoice", "billing", "subscription charge", "payment failed",
			"cancel my plan", "upgrade my plan", "account locked", "reset my password",
		},
	},
	{
		Name: "general knowledge or factual questions",
		Keywords: []string{
			"capital of", "population of", "who invented", "who discovered",
			"when was", "what year did", "how far is", "how tall is",
			"define the word", "meaning of the word",
		},
	},
	{
		Name: "coding or math problems",
		Keywords: []string{
			"write code", "write a program", "debug this", "python script",
			"javascript", "sql query", "algorithm for", "solve this equation",
			"calculate the", "derivative of", "integral of",
		},
	},
	{
		Name: "legal, medical, or financial advice",
		Keywords: []string{
			"legal advice", "should i sue", "file a lawsuit", "draft a contract",
			"diagnose", "prescription", "medication dosage", "which medicine",
			"stock tips", "which stocks", "invest my money", "tax filing", "file my taxes",
		},
	},
}

// categoryRedirects is the middle sentence of the boundary reply, one per
// category.
var categoryRedirects = map[string]string{
	"technical support":                        "For device or software trouble, a technical support service will get you much further than I can.",
	"billing or account issues":                "For billing or account concerns, the app's help centre is the right place and they can actually fix it.",
	"general knowledge or factual questions":   "For factual questions like this, a quick search or an encyclopedia will give you a reliable answer.",
	"coding or math problems":                  "For coding or math problems, a dedicated tutor or programming assistant will serve you better.",
	"legal, medical, or financial advice":      "For legal, medical, or financial decisions, please speak with a qualified professional who can look at your full situation.",
}
