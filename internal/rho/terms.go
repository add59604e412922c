// Package rho builds the templated contract terms the engine sends to the
// chain. Templates only; no I/O.
package rho

import (
	"strings"

	"cosmossdk.io/math"
)

// balanceTerm queries a vault's balance through the registry. Sent as an
// exploratory deploy, so it costs nothing and never reaches the validator.
const balanceTerm = `new return, rl(` + "`rho:registry:lookup`" + `), RevVaultCh, vaultCh in {
  rl!(` + "`rho:rchain:revVault`" + `, *RevVaultCh) |
  for (@(_, RevVault) <- RevVaultCh) {
    @RevVault!("findOrCreate", "%ADDR%", *vaultCh) |
    for (@(true, vault) <- vaultCh) {
      @vault!("balance", *return)
    }
  }
}`

// transferTerm moves amount atomic units between two vaults, authorized by
// the deployer's key.
const transferTerm = `new rl(` + "`rho:registry:lookup`" + `), RevVaultCh in {
  rl!(` + "`rho:rchain:revVault`" + `, *RevVaultCh) |
  for (@(_, RevVault) <- RevVaultCh) {
    new vaultCh, vaultTo, revVaultkeyCh,
      deployerId(` + "`rho:rchain:deployerId`" + `)
    in {
      @RevVault!("findOrCreate", "%FROM%", *vaultCh) |
      @RevVault!("findOrCreate", "%TO%", *vaultTo) |
      @RevVault!("deployerAuthKey", *deployerId, *revVaultkeyCh) |
      for (@(true, vault) <- vaultCh; key <- revVaultkeyCh; @(true, _) <- vaultTo) {
        new resultCh in {
          @vault!("transfer", "%TO%", %AMOUNT%, *key, *resultCh)
        }
      }
    }
  }
}`

// Balance returns the exploratory term that reports addr's vault balance.
func Balance(addr string) string {
	return strings.ReplaceAll(balanceTerm, "%ADDR%", addr)
}

// Transfer returns the deploy term that moves amount atomic units from one
// vault to another.
func Transfer(from, to string, amount math.Int) string {
	t := strings.ReplaceAll(transferTerm, "%FROM%", from)
	t = strings.ReplaceAll(t, "%TO%", to)
	return strings.ReplaceAll(t, "%AMOUNT%", amount.String())
}
