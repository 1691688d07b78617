package catalog

import "recipebook/pkg/domain"

var defaultIngredients = []IngredientEntry{
	{Name: "Cuke", UnitPrice: 2},
	{Name: "Banana", UnitPrice: 2},
	{Name: "Paracetamol", UnitPrice: 3},
	{Name: "Donut", UnitPrice: 3},
	{Name: "Viagra", UnitPrice: 4},
	{Name: "Mouth Wash", UnitPrice: 4},
	{Name: "Flu Medicine", UnitPrice: 5},
	{Name: "Gasoline", UnitPrice: 5},
	{Name: "Energy Drink", UnitPrice: 6},
	{Name: "Motor Oil", UnitPrice: 6},
	{Name: "Mega Bean", UnitPrice: 7},
	{Name: "Chili", UnitPrice: 7},
	{Name: "Battery", UnitPrice: 8},
	{Name: "Iodine", UnitPrice: 8},
	{Name: "Addy", UnitPrice: 9},
	{Name: "Horse Semen", UnitPrice: 9},
}

var defaultEffects = []domain.Effect{
	{Name: "Anti-Gravity", Description: "Reduces gravity for the user", Color: "#235BCD"},
	{Name: "Athletic", Description: "Run faster", Color: "#75C8FD"},
	{Name: "Balding", Description: "Hair falls out", Color: "#C79232"},
	{Name: "Bright-Eyed", Description: "Eyes glow", Color: "#BEF7FD"},
	{Name: "Calming", Description: "Slows the user down", Color: "#FED09B"},
	{Name: "Calorie-Dense", Description: "Makes the user gain weight", Color: "#FE84F4"},
	{Name: "Cyclopean", Description: "Merges the eyes into one", Color: "#FEC174"},
	{Name: "Disorienting", Description: "Inverts movement", Color: "#FE7551"},
	{Name: "Electrifying", Description: "Sparks arc between nearby people", Color: "#55C8FD"},
	{Name: "Energizing", Description: "Boosts movement speed", Color: "#9AFE6D"},
	{Name: "Euphoric", Description: "Improves mood", Color: "#FEEA74"},
	{Name: "Explosive", Description: "The user explodes after a delay", Color: "#FE4B40"},
	{Name: "Focused", Description: "Sharpens attention", Color: "#75F1FD"},
	{Name: "Foggy", Description: "Surrounds the user with fog", Color: "#B0B0AF"},
	{Name: "Gingeritis", Description: "Turns hair orange", Color: "#FE8829"},
	{Name: "Glowing", Description: "The user glows", Color: "#85E459"},
	{Name: "Jennerising", Description: "Changes the user's appearance", Color: "#FE8DF9"},
	{Name: "Laxative", Description: "Urgent trips to the toilet", Color: "#763C25"},
	{Name: "Long Faced", Description: "Stretches the face", Color: "#FED961"},
	{Name: "Munchies", Description: "Increases hunger", Color: "#C96E57"},
	{Name: "Paranoia", Description: "Makes the user nervous", Color: "#C46762"},
	{Name: "Refreshing", Description: "Restores energy", Color: "#B2FE98"},
	{Name: "Schizophrenic", Description: "Causes hallucinations", Color: "#645AFD"},
	{Name: "Sedating", Description: "Makes the user sleepy", Color: "#6B5FD8"},
	{Name: "Seizure-Inducing", Description: "Causes seizures", Color: "#FEE900"},
	{Name: "Shrinking", Description: "Shrinks the user", Color: "#B6FEDA"},
	{Name: "Slippery", Description: "Reduces friction", Color: "#A2E0FD"},
	{Name: "Smelly", Description: "Gives off a foul smell", Color: "#7DBC31"},
	{Name: "Sneaky", Description: "Quieter footsteps", Color: "#7B7B7B"},
	{Name: "Spicy", Description: "Hair catches fire", Color: "#FE6B4C"},
	{Name: "Thought-Provoking", Description: "Enlarges the head", Color: "#FEA0CB"},
	{Name: "Toxic", Description: "Causes vomiting", Color: "#5F9A31"},
	{Name: "Tropic Thunder", Description: "Changes skin color", Color: "#FE9F47"},
	{Name: "Zombifying", Description: "Turns the user into a zombie", Color: "#71AB5D"},
}

// DefaultIngredients returns a catalog seeded with the stock mixers.
func DefaultIngredients() *IngredientCatalog {
	return NewIngredientCatalog(defaultIngredients...)
}

// DefaultEffects returns a catalog seeded with the stock effects.
func DefaultEffects() *EffectCatalog {
	return NewEffectCatalog(defaultEffects...)
}
