// Package recall implements a Bayesian model of memory decay for review
// scheduling.
//
// A fact's memory is described by a Belief (α, β, λ): a Beta(α, β) belief
// about the probability of recalling the fact exactly λ time units after the
// last review. λ is called the half-life because the prior is usually
// symmetric about 0.5 at that point. Recall at any other elapsed time t
// follows by raising the recall probability to the power δ = t/λ, which
// turns the Beta belief into a Generalised Beta of the First Kind (GB1).
//
// Every function is pure. Gamma and Beta functions are evaluated through
// math.Lgamma, and differences of probability masses are taken in log space
// with LnSubExp, so models with long half-lives or many reviews stay finite.
//
// Basic usage:
//
//	b := recall.Default(3600) // Beta(2, 2) at a one hour half-life
//	p, err := recall.Mean(1800, b)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b, err = recall.Update(true, 1800, b)
//
// Units are up to the caller; the scheduler uses seconds throughout.
package recall
