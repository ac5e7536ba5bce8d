package store

// schemaDDL provisions the target schema.
//
// addressBookId and uniqueIdentifier are migration conveniences carried
// over from the source records; generated statements resolve references
// through them, so they are declared UNIQUE (a lookup yields at most one
// row, or NULL). They remain ordinary columns after the migration and can
// be dropped once nothing else needs them.
const schemaDDL = `
CREATE DATABASE IF NOT EXISTS ` + "`{{database}}`" + `;
USE ` + "`{{database}}`" + `;

CREATE TABLE IF NOT EXISTS Customers (
  id int(11) NOT NULL AUTO_INCREMENT,
  NameFirst varchar(50) DEFAULT NULL,
  NameLast varchar(50) DEFAULT NULL,
  IsCompany tinyint(1) DEFAULT NULL,
  Company varchar(50) DEFAULT NULL,
  Street varchar(50) DEFAULT NULL,
  City varchar(50) DEFAULT NULL,
  State char(2) DEFAULT NULL,
  Zip varchar(9) DEFAULT NULL,
  Phone varchar(15) DEFAULT NULL,
  Phone2 varchar(15) DEFAULT NULL,
  Email varchar(50) DEFAULT NULL,
  addressBookId varchar(50) DEFAULT NULL,
  PRIMARY KEY (id),
  UNIQUE KEY addressBookId (addressBookId)
) ENGINE=InnoDB DEFAULT CHARSET=utf8;

CREATE TABLE IF NOT EXISTS Projects (
  ProjectNum int(11) NOT NULL AUTO_INCREMENT,
  Customer int(11) DEFAULT NULL,
  Title varchar(100) DEFAULT NULL,
  Description text,
  DateCreated bigint(11) unsigned DEFAULT NULL,
  DateModified bigint(11) DEFAULT NULL,
  DateDue bigint(11) DEFAULT NULL,
  Status int(4) DEFAULT NULL,
  uniqueIdentifier varchar(50) DEFAULT NULL,
  UNIQUE KEY ProjectNum (ProjectNum),
  UNIQUE KEY uniqueIdentifier (uniqueIdentifier),
  KEY Customer (Customer),
  KEY Status (Status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8;

CREATE TABLE IF NOT EXISTS JobEvents (
  id int(11) NOT NULL AUTO_INCREMENT,
  ProjectID int(11) DEFAULT NULL,
  Name varchar(255) DEFAULT NULL,
  Type varchar(50) DEFAULT '',
  Rate float(11,2) DEFAULT NULL,
  Quantity float(11,2) DEFAULT NULL,
  TaxRate float(5,3) DEFAULT NULL,
  Description text,
  PRIMARY KEY (id),
  KEY ProjectID (ProjectID)
) ENGINE=InnoDB DEFAULT CHARSET=utf8;

CREATE TABLE IF NOT EXISTS JobEventsEstimates (
  id int(11) NOT NULL AUTO_INCREMENT,
  ProjectID int(11) DEFAULT NULL,
  Name varchar(255) DEFAULT NULL,
  Type varchar(50) DEFAULT '',
  Rate float(11,2) DEFAULT NULL,
  Quantity float(11,2) DEFAULT NULL,
  TaxRate float(5,3) DEFAULT NULL,
  Description text,
  PRIMARY KEY (id),
  KEY ProjectID (ProjectID)
) ENGINE=InnoDB DEFAULT CHARSET=utf8;

CREATE TABLE IF NOT EXISTS Invoices (
  id int(11) unsigned NOT NULL AUTO_INCREMENT,
  invoiceNumber int(11) DEFAULT NULL,
  Customer int(11) DEFAULT NULL,
  ProjectNum int(11) DEFAULT NULL,
  ProjectNum2 int(11) DEFAULT NULL,
  Amount varchar(11) DEFAULT NULL,
  Balance varchar(11) DEFAULT NULL,
  Overdue int(11) DEFAULT NULL,
  Date bigint(11) DEFAULT NULL,
  DateDue bigint(11) DEFAULT NULL,
  isEstimate int(11) DEFAULT NULL,
  uniqueIdentifier varchar(50) DEFAULT NULL,
  PRIMARY KEY (id),
  UNIQUE KEY uniqueIdentifier (uniqueIdentifier)
) ENGINE=InnoDB DEFAULT CHARSET=utf8;
`
