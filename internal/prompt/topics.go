package prompt

import (
	"strings"

	"github.com/saarthi-labs/saarthi/internal/models"
)

// topicScanWindow is how many recent user turns (plus the current message)
// feed topic inference.
const topicScanWindow = 5

const DefaultTopic = "general conversation"

type topicCluster struct {
	Name     string
	Keywords []string
	Guidance string
}

// topicClusters are checked in priority order; the first match names the
// underlying topic and injects its guidance block. Crisis sits above
// everything except money trouble because the two often co-occur and the
// money cluster carries the crisis language too.
var topicClusters = []topicCluster{
	{
		Name: "financial hardship",
		Keywords: []string{
			"lost my job", "laid off", "fired", "no money", "pay rent", "pay the rent",
			"debt", "loan", "emi", "salary", "can't afford", "cant afford", "expenses",
		},
		Guidance: "Money trouble in India often carries family weight: EMIs, siblings' education, parents' medical bills, festival expenses like Diwali that cannot simply be skipped. Acknowledge the practical fear without minimizing it, and gently note that a rough patch does not define their worth to their family.",
	},
	{
		Name: "emotional crisis",
		Keywords: []string{
			"end my life", "kill myself", "suicide", "self harm", "self-harm",
			"hurt myself", "no reason to live", "better off without me",
		},
		Guidance: "This may be a crisis. Respond with warmth and complete seriousness, never platitudes. Encourage them to reach someone right now: iCall (9152987821), AASRA (98204 66726), or Kiran (1800-599-0019) are free and confidential within India. Stay present and keep the door open.",
	},
	{
		Name: "marriage and family approval",
		Keywords: []string{
			"arranged marriage", "marriage pressure", "rishta", "my parents want me to marry",
			"won't accept him", "won't accept her", "different caste", "love marriage",
		},
		Guidance: "Marriage decisions here are rarely individual: parents, extended family, community standing, and caste expectations all press in. Validate how exhausting it is to balance personal choice against family approval without casting the family as villains.",
	},
	{
		Name: "academic pressure",
		Keywords: []string{
			"exam", "board results", "entrance test", "jee", "neet", "backlog",
			"failed the paper", "marks", "percentile", "rank",
		},
		Guidance: "Exam pressure in India is enormous: a single result can feel like it decides a lifetime, and relatives compare ranks openly. Remind them that one exam is not the whole story, and that paths like re-attempts and lateral routes genuinely exist.",
	},
	{
		Name: "career and government-job aspirations",
		Keywords: []string{
			"upsc", "government job", "sarkari naukri", "interview rejection", "no offers",
			"appraisal", "promotion", "notice period", "switch jobs",
		},
		Guidance: "Career worth is often tangled with family pride, especially around government posts and stable titles. Years of UPSC attempts can feel like a gamble with one's youth. Honour the effort already spent before discussing what comes next.",
	},
	{
		Name: "family obligations",
		Keywords: []string{
			"joint family", "in-laws", "saas", "take care of my parents", "elder care",
			"family responsibilities", "duty towards", "younger brother", "younger sister",
		},
		Guidance: "Duty to parents and elders is a deep value, not a burden to be discarded; the strain comes from carrying it alone. Help them hold both the love and the exhaustion without suggesting they simply walk away.",
	},
	{
		Name: "relationship betrayal",
		Keywords: []string{
			"cheated on me", "cheating", "affair", "lied to me", "betrayed",
			"broke up", "breakup", "ghosted", "left me for",
		},
		Guidance: "Betrayal cuts at trust itself. Let them name the hurt and anger without rushing to forgiveness or blame, and avoid speculating about the other person's motives.",
	},
	{
		Name: "work stress",
		Keywords: []string{
			"workload", "deadline", "my boss", "my manager", "overtime", "office politics",
			"toxic workplace", "work from home", "team lead",
		},
		Guidance: "Long hours and hierarchical workplaces make it hard to push back, and quitting is rarely a simple option when family depends on the income. Validate the strain before exploring small, concrete reliefs.",
	},
}

// InferTopic scans the current message and the most recent user turns for
// the first matching cluster, in priority order.
func InferTopic(current string, history []models.ConversationTurn) (name, guidance string) {
	texts := []string{strings.ToLower(current)}
	count := 0
	for i := len(history) - 1; i >= 0 && count < topicScanWindow; i-- {
		if history[i].Role != models.RoleUser {
			continue
		}
		texts = append(texts, strings.ToLower(history[i].Message))
		count++
	}

	for _, cluster := range topicClusters {
		for _, text := range texts {
			for _, kw := range cluster.Keywords {
				if strings.Contains(text, kw) {
					return cluster.Name, cluster.Guidance
				}
			}
		}
	}

	return DefaultTopic, ""
}
