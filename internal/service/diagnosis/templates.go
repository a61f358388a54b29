package diagnosis

import "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"

// treatmentPlanTemplates seeds the plan builder with starting points for
// common presenting problems. Clinicians edit them before saving.
var treatmentPlanTemplates = []model.TreatmentPlanTemplate{
	{
		Problem: "Depression",
		Goals: []string{
			"Reduce depressive symptoms and improve daily functioning",
			"Develop sustainable coping strategies for low mood",
		},
		Objectives: []string{
			"Client will report depressive symptoms at or below mild range on standardized screening within 90 days",
			"Client will engage in at least two pleasurable activities per week",
			"Client will identify and challenge three negative thought patterns per session",
		},
		Interventions: []string{
			"Cognitive behavioral therapy with thought records",
			"Behavioral activation scheduling",
			"Psychoeducation on depression and sleep hygiene",
		},
	},
	{
		Problem: "Anxiety",
		Goals: []string{
			"Reduce frequency and intensity of anxiety symptoms",
			"Increase tolerance of anxiety-provoking situations",
		},
		Objectives: []string{
			"Client will practice a relaxation technique daily and log results",
			"Client will complete a graded exposure hierarchy over 12 weeks",
			"Client will report reduced avoidance of two identified situations",
		},
		Interventions: []string{
			"Diaphragmatic breathing and progressive muscle relaxation training",
			"Graded exposure with response prevention",
			"Cognitive restructuring of catastrophic predictions",
		},
	},
	{
		Problem: "Trauma",
		Goals: []string{
			"Process traumatic memories and reduce intrusive symptoms",
			"Restore sense of safety and control",
		},
		Objectives: []string{
			"Client will develop a grounding plan for use during flashbacks",
			"Client will construct a trauma narrative at a tolerable pace",
			"Client will report reduced nightmare frequency within 60 days",
		},
		Interventions: []string{
			"Trauma-focused cognitive behavioral therapy",
			"Grounding and distress tolerance skills",
			"Safety planning and stabilization work",
		},
	},
	{
		Problem: "Substance use",
		Goals: []string{
			"Achieve and maintain abstinence or agreed reduction target",
			"Build a relapse prevention plan",
		},
		Objectives: []string{
			"Client will identify personal triggers and high-risk situations",
			"Client will attend one recovery support meeting per week",
			"Client will maintain a use log reviewed each session",
		},
		Interventions: []string{
			"Motivational interviewing",
			"Relapse prevention skills training",
			"Coordination with medical provider as indicated",
		},
	},
	{
		Problem: "Relationship issues",
		Goals: []string{
			"Improve communication and conflict resolution within the relationship",
		},
		Objectives: []string{
			"Client will use reflective listening during disagreements",
			"Client will identify personal contribution to recurring conflicts",
			"Client will practice one repair attempt per conflict episode",
		},
		Interventions: []string{
			"Communication skills training",
			"Structured conflict de-escalation exercises",
			"Exploration of attachment patterns",
		},
	},
	{
		Problem: "Grief",
		Goals: []string{
			"Process the loss and adapt to life changes following it",
		},
		Objectives: []string{
			"Client will express feelings about the loss in session without avoidance",
			"Client will re-engage with one meaningful activity previously shared with the deceased",
			"Client will develop rituals for remembrance",
		},
		Interventions: []string{
			"Grief-focused supportive therapy",
			"Narrative and meaning-making work",
			"Psychoeducation on the grieving process",
		},
	},
}
