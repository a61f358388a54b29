package diagnosis

import "github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"

// icdCatalog is the behavioral-health slice of ICD-10-CM used by the
// diagnosis picker. Reference data, not a complete code set.
var icdCatalog = []model.ICDCode{
	{Code: "F32.0", Description: "Major depressive disorder, single episode, mild", Category: "Depressive disorders"},
	{Code: "F32.1", Description: "Major depressive disorder, single episode, moderate", Category: "Depressive disorders"},
	{Code: "F32.2", Description: "Major depressive disorder, single episode, severe without psychotic features", Category: "Depressive disorders"},
	{Code: "F32.9", Description: "Major depressive disorder, single episode, unspecified", Category: "Depressive disorders"},
	{Code: "F33.0", Description: "Major depressive disorder, recurrent, mild", Category: "Depressive disorders"},
	{Code: "F33.1", Description: "Major depressive disorder, recurrent, moderate", Category: "Depressive disorders"},
	{Code: "F33.2", Description: "Major depressive disorder, recurrent severe without psychotic features", Category: "Depressive disorders"},
	{Code: "F34.1", Description: "Dysthymic disorder", Category: "Depressive disorders"},
	{Code: "F40.10", Description: "Social phobia, unspecified", Category: "Anxiety disorders"},
	{Code: "F41.0", Description: "Panic disorder without agoraphobia", Category: "Anxiety disorders"},
	{Code: "F41.1", Description: "Generalized anxiety disorder", Category: "Anxiety disorders"},
	{Code: "F41.9", Description: "Anxiety disorder, unspecified", Category: "Anxiety disorders"},
	{Code: "F42.2", Description: "Mixed obsessional thoughts and acts", Category: "Obsessive-compulsive disorders"},
	{Code: "F43.10", Description: "Post-traumatic stress disorder, unspecified", Category: "Trauma-related disorders"},
	{Code: "F43.12", Description: "Post-traumatic stress disorder, chronic", Category: "Trauma-related disorders"},
	{Code: "F43.20", Description: "Adjustment disorder, unspecified", Category: "Trauma-related disorders"},
	{Code: "F43.21", Description: "Adjustment disorder with depressed mood", Category: "Trauma-related disorders"},
	{Code: "F43.22", Description: "Adjustment disorder with anxiety", Category: "Trauma-related disorders"},
	{Code: "F43.23", Description: "Adjustment disorder with mixed anxiety and depressed mood", Category: "Trauma-related disorders"},
	{Code: "F50.01", Description: "Anorexia nervosa, restricting type", Category: "Eating disorders"},
	{Code: "F50.2", Description: "Bulimia nervosa", Category: "Eating disorders"},
	{Code: "F60.3", Description: "Borderline personality disorder", Category: "Personality disorders"},
	{Code: "F84.0", Description: "Autistic disorder", Category: "Neurodevelopmental disorders"},
	{Code: "F90.0", Description: "Attention-deficit hyperactivity disorder, predominantly inattentive type", Category: "Neurodevelopmental disorders"},
	{Code: "F90.1", Description: "Attention-deficit hyperactivity disorder, predominantly hyperactive type", Category: "Neurodevelopmental disorders"},
	{Code: "F90.2", Description: "Attention-deficit hyperactivity disorder, combined type", Category: "Neurodevelopmental disorders"},
	{Code: "F10.10", Description: "Alcohol abuse, uncomplicated", Category: "Substance-related disorders"},
	{Code: "F10.20", Description: "Alcohol dependence, uncomplicated", Category: "Substance-related disorders"},
	{Code: "F11.10", Description: "Opioid abuse, uncomplicated", Category: "Substance-related disorders"},
	{Code: "F12.10", Description: "Cannabis abuse, uncomplicated", Category: "Substance-related disorders"},
	{Code: "F31.81", Description: "Bipolar II disorder", Category: "Bipolar disorders"},
	{Code: "F31.9", Description: "Bipolar disorder, unspecified", Category: "Bipolar disorders"},
	{Code: "F20.9", Description: "Schizophrenia, unspecified", Category: "Psychotic disorders"},
	{Code: "F25.9", Description: "Schizoaffective disorder, unspecified", Category: "Psychotic disorders"},
	{Code: "F51.01", Description: "Primary insomnia", Category: "Sleep disorders"},
	{Code: "Z63.0", Description: "Problems in relationship with spouse or partner", Category: "Psychosocial circumstances"},
	{Code: "Z63.4", Description: "Disappearance and death of family member", Category: "Psychosocial circumstances"},
}
