// Package dinoevo evolves fixed-topology neural controllers for a side-scrolling
// dino runner.
//
// A genome is a short, fixed-length list of genes. Each gene writes one weight
// into either the input->hidden or the hidden->output matrix of a 7-7-2 ReLU
// network; later genes overwrite earlier ones. A population is scored by the
// game (a dino's score is the number of tenths of a second it survived) and,
// once every individual is dead, replaced by a new generation made of the
// best-ever individual, elites, fresh genomes, mutations of the best,
// tournament mutations and tournament crossovers.
//
// The module is split into:
//
//	genome     genes, genomes and their copy/mutate/crossover operators
//	brain      network construction from a genome and the forward pass
//	evolution  individuals, tournament selection, statistics and the population controller
//	history    generation records: memory/SQLite stores, tables and charts
//
// Basic usage:
//
//	config, err := evolution.LoadConfig("configs/dino-config")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	pop, err := evolution.NewPopulation(config, rand.New(rand.NewSource(1)))
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	for pop.Generation <= 30 {
//		if err := pop.Tick(sense, act); err != nil {
//			log.Fatal(err)
//		}
//		// The game calls ind.Die(score) on collisions.
//		if pop.AllDead() {
//			if err := pop.AdvanceGeneration(); err != nil {
//				log.Fatal(err)
//			}
//		}
//	}
//
// See examples/dino for a complete headless game.
package dinoevo
