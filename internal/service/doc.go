// Package service provides the business logic layer (use cases) behind
// each portal page: dashboard, applications and accounts, collateral,
// repayments, the calculator and operator authentication.
package service
